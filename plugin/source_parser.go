package plugin

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/donutnomad/gg"
)

// ParseSourceToGG 将 Go 源代码解析并转换为 gg.Generator
// 不使用 gg 构建代码的生成器（如模板渲染）通过它接入合并流程
// imports 会被提取出来交给 gg 管理，声明部分（含文档注释）按原文保留
func ParseSourceToGG(source []byte) (*gg.Generator, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("解析源代码失败: %w", err)
	}

	gen := gg.New()
	gen.SetPackage(file.Name.Name)

	for _, imp := range file.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return nil, fmt.Errorf("import 路径 %s 无效: %w", imp.Path.Value, err)
		}
		switch {
		case imp.Name == nil:
			gen.P(importPath)
		case imp.Name.Name == "." || imp.Name.Name == "_":
			return nil, fmt.Errorf("不支持的 import 形式: %s %s", imp.Name.Name, imp.Path.Value)
		default:
			gen.PAlias(importPath, imp.Name.Name)
		}
	}

	if body := extractBody(fset, file, source); body != "" {
		gen.Body().Append(gg.String("%s", body))
	}

	return gen, nil
}

// extractBody 按原文提取 import 之外的声明
func extractBody(fset *token.FileSet, file *ast.File, source []byte) string {
	var parts []string

	for _, decl := range file.Decls {
		start := decl.Pos()
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok == token.IMPORT {
				continue
			}
			if d.Doc != nil {
				start = d.Doc.Pos()
			}
		case *ast.FuncDecl:
			if d.Doc != nil {
				start = d.Doc.Pos()
			}
		}

		from := fset.Position(start).Offset
		to := fset.Position(decl.End()).Offset
		parts = append(parts, string(source[from:to]))
	}

	return strings.Join(parts, "\n\n")
}
