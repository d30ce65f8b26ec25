package plugin

import (
	"regexp"
	"strings"
)

// annotationRegex 匹配注解 @Name 或 @Name(params)
var annotationRegex = regexp.MustCompile(`@(\w+)(?:\(([^)]*)\))?`)

// paramRegex 匹配参数:
// - key=`value` (反引号格式)
// - key="value" (双引号格式)
// - key=value (普通格式)
var paramRegex = regexp.MustCompile("(\\w+)\\s*=\\s*`([^`]*)`|(\\w+)\\s*=\\s*\"([^\"]*)\"|(\\w+)\\s*=\\s*([^,\\s]+)")

// positionalParam 无参数名时绑定到的参数
const positionalParam = "value"

// ParseAnnotations 从注释文本中解析所有注解
func ParseAnnotations(comment string) []*Annotation {
	var annotations []*Annotation

	for _, line := range strings.Split(comment, "\n") {
		// 去除注释前缀
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(line)

		for _, match := range annotationRegex.FindAllStringSubmatch(line, -1) {
			ann := &Annotation{
				Name:   match[1],
				Params: make(map[string]string),
				Raw:    match[0],
			}
			if len(match) > 2 && match[2] != "" {
				ann.Params = parseParams(match[2])
			}
			annotations = append(annotations, ann)
		}
	}

	return annotations
}

// parseParams 解析注解参数
// 只有一个未命名的值时（如 @Tag("city")），绑定到 value 参数
func parseParams(content string) map[string]string {
	params := make(map[string]string)

	matches := paramRegex.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		if v, ok := positionalValue(content); ok {
			params[positionalParam] = v
		}
		return params
	}

	for _, match := range matches {
		var key, value string
		switch {
		case match[1] != "":
			key, value = match[1], match[2]
		case match[3] != "":
			key, value = match[3], match[4]
		case match[5] != "":
			key, value = match[5], match[6]
		}
		if key != "" {
			params[strings.ToLower(key)] = value
		}
	}

	return params
}

// positionalValue 解析单个未命名参数，支持反引号、双引号和裸值
func positionalValue(content string) (string, bool) {
	content = strings.TrimSpace(content)
	if content == "" || strings.Contains(content, "=") {
		return "", false
	}
	if unquoted := trimQuotes(content); unquoted != content {
		return unquoted, true
	}
	if strings.ContainsAny(content, ", \t") {
		return "", false
	}
	return content, true
}

// FilterByNames 过滤指定名称的注解
func FilterByNames(annotations []*Annotation, names ...string) []*Annotation {
	if len(names) == 0 {
		return annotations
	}

	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}

	var result []*Annotation
	for _, ann := range annotations {
		if nameSet[ann.Name] {
			result = append(result, ann)
		}
	}
	return result
}

// HasAnnotation 检查是否包含指定注解
func HasAnnotation(annotations []*Annotation, name string) bool {
	return GetAnnotation(annotations, name) != nil
}

// GetAnnotation 获取指定名称的注解，存在多个时返回第一个
func GetAnnotation(annotations []*Annotation, name string) *Annotation {
	for _, ann := range annotations {
		if ann.Name == name {
			return ann
		}
	}
	return nil
}

// GetParam 获取注解参数
func (a *Annotation) GetParam(key string) string {
	return a.Params[strings.ToLower(key)]
}

// LookupParam 获取注解参数，并返回该参数是否存在
func (a *Annotation) LookupParam(key string) (string, bool) {
	v, ok := a.Params[strings.ToLower(key)]
	return v, ok
}
