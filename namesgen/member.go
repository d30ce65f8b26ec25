package namesgen

// NamePair 生成的常量：标识符和值
type NamePair struct {
	Ident string
	Value string
}

// ScanMembers 按声明顺序解析所有字段的名称
func ScanMembers(d *Declaration, candidates []*AnnotationType) []NamePair {
	pairs := make([]NamePair, 0, len(d.Fields))
	for _, f := range d.Fields {
		pairs = append(pairs, NamePair{Ident: f.Name, Value: ResolveField(f, candidates)})
	}
	return pairs
}
