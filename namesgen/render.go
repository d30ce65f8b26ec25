package namesgen

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/donutnomad/gonames/internal/utils"
)

const artifactTemplate = `package {{ .Package }}

// {{ .TypeName }} holds the resolved names of {{ .Name }} and its fields.
// Its fields are unexported, so it can only be read inside this package.
var {{ .TypeName }} = struct {
{{- range .Pairs }}
	{{ .Ident }} string
{{- end }}
}{
{{- range .Pairs }}
	{{ .Ident }}: {{ quote .Value }},
{{- end }}
}
`

var artifactTmpl = template.Must(template.New("names").Funcs(sprig.TxtFuncMap()).Parse(artifactTemplate))

// Artifact 一个结构体的生成结果
type Artifact struct {
	Package  string
	Name     string
	TypeName string     // <Name>Names
	Pairs    []NamePair // 第一个是结构体自身，其后是字段
	Source   []byte
}

// Render 渲染生成代码
// 包名为空时仍然输出空的 package 语句，并返回一条警告
func Render(decl *Declaration, classLevelName string, fieldPairs []NamePair) (*Artifact, []string, error) {
	pairs := make([]NamePair, 0, len(fieldPairs)+1)
	pairs = append(pairs, NamePair{Ident: utils.LowerFirst(decl.Name), Value: classLevelName})
	pairs = append(pairs, fieldPairs...)

	artifact := &Artifact{
		Package:  decl.Package,
		Name:     decl.Name,
		TypeName: decl.Name + "Names",
		Pairs:    pairs,
	}

	var buf bytes.Buffer
	if err := artifactTmpl.Execute(&buf, artifact); err != nil {
		return nil, nil, fmt.Errorf("渲染 %s 失败: %w", decl.QualifiedName(), err)
	}

	if decl.Package == "" {
		artifact.Source = buf.Bytes()
		return artifact, []string{fmt.Sprintf("%s 没有包名，生成的代码使用空的 package 语句", decl.QualifiedName())}, nil
	}

	src, err := utils.FormatSource(decl.Name+"_names.go", buf.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("格式化 %s 失败: %w", decl.QualifiedName(), err)
	}
	artifact.Source = src
	return artifact, nil, nil
}
