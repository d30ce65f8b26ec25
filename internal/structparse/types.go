package structparse

import "github.com/donutnomad/gonames/plugin"

// AnnotationMarker 标记注解类型接口的注解名
const AnnotationMarker = "Annotation"

// FieldInfo 表示结构体字段信息
type FieldInfo struct {
	Name        string               // 字段名
	Type        string               // 字段类型
	Tag         string               // 字段标签（已去除反引号）
	Annotations []*plugin.Annotation // 字段文档注释和行尾注释中的注解
}

// StructInfo 表示结构体信息
type StructInfo struct {
	Name        string               // 结构体名称
	PackageName string               // 包名
	ImportPath  string               // 包导入路径，不在模块中时为空
	FilePath    string               // 结构体所在文件路径
	Annotations []*plugin.Annotation // 结构体文档注释中的注解
	Fields      []FieldInfo          // 具名字段，按声明顺序
}

// QualifiedName 返回结构体的全限定名
func (s *StructInfo) QualifiedName() string {
	if s.ImportPath == "" {
		return s.Name
	}
	return s.ImportPath + "." + s.Name
}

// MethodInfo 表示接口方法信息
type MethodInfo struct {
	Name    string   // 方法名
	Results []string // 返回值类型列表
}

// InterfaceInfo 表示注解类型接口
type InterfaceInfo struct {
	Name     string       // 接口名，即注解名
	FilePath string       // 接口所在文件
	Methods  []MethodInfo // 方法列表，按声明顺序
}

// ReturnsString 方法是否只返回一个 string
func (m MethodInfo) ReturnsString() bool {
	return len(m.Results) == 1 && m.Results[0] == "string"
}
