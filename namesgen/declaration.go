package namesgen

import (
	"reflect"

	"github.com/donutnomad/gonames/internal/structparse"
	"github.com/donutnomad/gonames/plugin"
)

// Declaration 需要生成名称常量的结构体，构建后不再修改
type Declaration struct {
	Name        string
	Package     string // 包名，可能为空
	ImportPath  string
	FilePath    string
	Fields      []Field
	Annotations []*plugin.Annotation
}

// Field 结构体的具名字段
type Field struct {
	Name        string
	Tag         reflect.StructTag
	Annotations []*plugin.Annotation
}

// NewDeclaration 从解析结果构建 Declaration
func NewDeclaration(info *structparse.StructInfo) *Declaration {
	fields := make([]Field, 0, len(info.Fields))
	for _, f := range info.Fields {
		fields = append(fields, Field{
			Name:        f.Name,
			Tag:         reflect.StructTag(f.Tag),
			Annotations: f.Annotations,
		})
	}
	return &Declaration{
		Name:        info.Name,
		Package:     info.PackageName,
		ImportPath:  info.ImportPath,
		FilePath:    info.FilePath,
		Fields:      fields,
		Annotations: info.Annotations,
	}
}

// QualifiedName 返回全限定名，没有导入路径时返回结构体名
func (d *Declaration) QualifiedName() string {
	if d.ImportPath == "" {
		return d.Name
	}
	return d.ImportPath + "." + d.Name
}

// Lookup 结构体上只可能出现注释注解
func (d *Declaration) Lookup(t *AnnotationType) (Instance, bool) {
	if t.Kind != KindComment {
		return nil, false
	}
	return lookupComment(d.Annotations, t)
}

func (f Field) Lookup(t *AnnotationType) (Instance, bool) {
	switch t.Kind {
	case KindComment:
		return lookupComment(f.Annotations, t)
	case KindTag:
		v, ok := f.Tag.Lookup(t.TagKey)
		if !ok {
			return nil, false
		}
		return tagInstance{typ: t, value: v}, true
	}
	return nil, false
}

func lookupComment(annotations []*plugin.Annotation, t *AnnotationType) (Instance, bool) {
	ann := plugin.GetAnnotation(annotations, t.Name)
	if ann == nil {
		return nil, false
	}
	return commentInstance{ann: ann}, true
}
