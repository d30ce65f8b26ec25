package namesgen

import (
	"strings"

	"github.com/donutnomad/gonames/internal/utils"
)

// SelectAccessor 选择携带名称的访问器
//
//   - 只有一个访问器时，必须返回 string
//   - 多个访问器时，按顺序取第一个返回 string 的 value，或名称包含 name 的访问器；
//     都没有时取第一个返回 string 的访问器
//   - 没有访问器时不可用
func SelectAccessor(accessors []Accessor) (Accessor, bool) {
	switch len(accessors) {
	case 0:
		return Accessor{}, false
	case 1:
		if !accessors[0].ReturnsString {
			return Accessor{}, false
		}
		return accessors[0], true
	}

	for _, a := range accessors {
		if (a.Name == "value" && a.ReturnsString) || strings.Contains(strings.ToLower(a.Name), "name") {
			return a, true
		}
	}
	for _, a := range accessors {
		if a.ReturnsString {
			return a, true
		}
	}
	return Accessor{}, false
}

// resolve 按候选顺序查找第一个可用的名称
func resolve(el Element, candidates []*AnnotationType) (string, bool) {
	for _, t := range candidates {
		inst, ok := el.Lookup(t)
		if !ok {
			continue
		}
		accessor, ok := SelectAccessor(t.Accessors)
		if !ok {
			continue
		}
		value, ok, err := inst.Invoke(accessor)
		if err != nil || !ok {
			continue
		}
		return value, true
	}
	return "", false
}

// ResolveField 解析字段名称，没有可用的候选注解时使用字段名
func ResolveField(f Field, candidates []*AnnotationType) string {
	if name, ok := resolve(f, candidates); ok {
		return name
	}
	return f.Name
}

// ResolveDeclaration 解析结构体名称，没有可用的候选注解时使用首字母小写的结构体名
func ResolveDeclaration(d *Declaration, candidates []*AnnotationType) string {
	if name, ok := resolve(d, candidates); ok {
		return name
	}
	return utils.LowerFirst(d.Name)
}
