package inner

// @Annotation
type Ignored interface {
	value() string
}
