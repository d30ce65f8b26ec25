package namesgen

import (
	"fmt"
	"strings"

	"github.com/donutnomad/gonames/internal/structparse"
	"github.com/donutnomad/gonames/plugin"
	"gorm.io/gorm/schema"
)

// Kind 注解类型的来源
type Kind int

const (
	KindComment Kind = iota + 1 // 注释注解，如 // @Tag(label="x")
	KindTag                     // 结构体标签，如 `json:"x"`
)

// TagFormat 结构体标签值的格式
type TagFormat int

const (
	FormatRaw      TagFormat = iota // 整个标签值
	FormatComma                     // name,opt1,opt2
	FormatKeyValue                  // key:value;key2:value2
)

// Accessor 注解类型的属性访问器
type Accessor struct {
	Name          string
	ReturnsString bool
}

// AnnotationType 候选注解类型
type AnnotationType struct {
	Name      string
	Kind      Kind
	TagKey    string    // 仅 KindTag
	Format    TagFormat // 仅 KindTag
	Accessors []Accessor
}

// Instance 元素上的注解实例
type Instance interface {
	// Invoke 调用访问器，ok 为 false 表示值不存在
	Invoke(accessor Accessor) (value string, ok bool, err error)
}

// Element 可以携带注解的元素（结构体或字段）
type Element interface {
	Lookup(t *AnnotationType) (Instance, bool)
}

// FromInterface 将 @Annotation 接口转换为注释注解类型，方法即访问器
func FromInterface(info structparse.InterfaceInfo) *AnnotationType {
	accessors := make([]Accessor, 0, len(info.Methods))
	for _, m := range info.Methods {
		accessors = append(accessors, Accessor{Name: m.Name, ReturnsString: m.ReturnsString()})
	}
	return &AnnotationType{
		Name:      info.Name,
		Kind:      KindComment,
		Accessors: accessors,
	}
}

var commaTagOptions = map[string][]string{
	"json":         {"omitempty", "string"},
	"yaml":         {"omitempty", "inline", "flow"},
	"xml":          {"attr", "omitempty", "chardata"},
	"toml":         {"omitempty", "inline"},
	"bson":         {"omitempty", "inline"},
	"db":           {},
	"form":         {"omitempty"},
	"mapstructure": {"omitempty", "squash", "remain"},
	"msgpack":      {"omitempty", "inline"},
}

// BuiltinTagType 返回内置的结构体标签类型
func BuiltinTagType(key string) (*AnnotationType, bool) {
	if key == "gorm" {
		return &AnnotationType{
			Name:   key,
			Kind:   KindTag,
			TagKey: key,
			Format: FormatKeyValue,
			Accessors: []Accessor{
				{Name: "column", ReturnsString: true},
				{Name: "type", ReturnsString: true},
				{Name: "primaryKey"},
				{Name: "default", ReturnsString: true},
			},
		}, true
	}

	options, ok := commaTagOptions[key]
	if !ok {
		return nil, false
	}
	accessors := []Accessor{{Name: "name", ReturnsString: true}}
	for _, opt := range options {
		accessors = append(accessors, Accessor{Name: opt})
	}
	return &AnnotationType{
		Name:      key,
		Kind:      KindTag,
		TagKey:    key,
		Format:    FormatComma,
		Accessors: accessors,
	}, true
}

// rawTagType 未声明也不是内置的名称按原始结构体标签处理
func rawTagType(key string) *AnnotationType {
	return &AnnotationType{
		Name:      key,
		Kind:      KindTag,
		TagKey:    key,
		Format:    FormatRaw,
		Accessors: []Accessor{{Name: "value", ReturnsString: true}},
	}
}

// LookupAnnotationType 按名称查找候选注解类型
// 查找顺序：包内声明的 @Annotation 接口 > 内置结构体标签 > 原始结构体标签
func LookupAnnotationType(name string, declared []*AnnotationType) *AnnotationType {
	for _, t := range declared {
		if t.Name == name {
			return t
		}
	}
	if t, ok := BuiltinTagType(name); ok {
		return t
	}
	return rawTagType(name)
}

// ResolveCandidates 将候选名称列表转换为注解类型，保持原有顺序
func ResolveCandidates(names []string, declared []*AnnotationType) []*AnnotationType {
	candidates := make([]*AnnotationType, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, LookupAnnotationType(name, declared))
	}
	return candidates
}

// commentInstance 注释注解实例，访问器读取同名参数
type commentInstance struct {
	ann *plugin.Annotation
}

func (c commentInstance) Invoke(accessor Accessor) (string, bool, error) {
	if !accessor.ReturnsString {
		return "", false, fmt.Errorf("@%s 的访问器 %s 不返回 string", c.ann.Name, accessor.Name)
	}
	v, ok := c.ann.LookupParam(accessor.Name)
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

// tagInstance 结构体标签实例
type tagInstance struct {
	typ   *AnnotationType
	value string
}

func (t tagInstance) Invoke(accessor Accessor) (string, bool, error) {
	if !accessor.ReturnsString {
		return "", false, fmt.Errorf("标签 %s 的访问器 %s 不返回 string", t.typ.TagKey, accessor.Name)
	}

	var v string
	switch t.typ.Format {
	case FormatComma:
		if accessor.Name != "name" {
			return "", false, fmt.Errorf("标签 %s 不支持访问器 %s", t.typ.TagKey, accessor.Name)
		}
		// 只有 "-" 表示忽略该字段，"-," 表示名称就是 -
		if t.value != "-" {
			v, _, _ = strings.Cut(t.value, ",")
		}
	case FormatKeyValue:
		v = lookupKeyValue(t.value, accessor.Name)
	default:
		v = t.value
	}

	if v == "" {
		return "", false, nil
	}
	return v, true, nil
}

// lookupKeyValue 从 key:value;key2:value2 格式中查找值，key 大小写不敏感
// 只有 key 没有值的项（如 primaryKey）视为不存在
func lookupKeyValue(tag, key string) string {
	k := strings.ToUpper(key)
	v, ok := schema.ParseTagSetting(tag, ";")[k]
	if !ok || v == k {
		return ""
	}
	return strings.TrimSpace(v)
}
