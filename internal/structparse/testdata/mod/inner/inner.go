package inner

// @Names
type Item struct {
	Title string
}
