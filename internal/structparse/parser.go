package structparse

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strconv"

	"github.com/donutnomad/gonames/plugin"
)

// ParseStruct 解析指定文件中的结构体（包级便捷函数）
func ParseStruct(filename, structName string) (*StructInfo, error) {
	return NewParseContext().ParseStruct(filename, structName)
}

// ParseStruct 解析指定文件中的结构体
// 只收集具名字段；匿名嵌入字段和 _ 字段不属于结构体自身的成员，会被跳过
func (c *ParseContext) ParseStruct(filename, structName string) (*StructInfo, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("解析文件失败: %w", err)
	}

	typeSpec, doc := findStruct(node, structName)
	if typeSpec == nil {
		return nil, fmt.Errorf("未找到结构体 %s", structName)
	}

	info := &StructInfo{
		Name:        structName,
		PackageName: node.Name.Name,
		FilePath:    filename,
	}
	if doc != nil {
		info.Annotations = plugin.ParseAnnotations(doc.Text())
	}

	// 不在模块中的文件（如临时目录）没有导入路径，不影响生成
	if importPath, err := c.ImportPath(filepath.Dir(filename)); err == nil {
		info.ImportPath = importPath
	}

	fields, err := parseFields(typeSpec.Type.(*ast.StructType))
	if err != nil {
		return nil, fmt.Errorf("解析结构体 %s 的字段失败: %w", structName, err)
	}
	info.Fields = fields

	return info, nil
}

// findStruct 查找结构体声明及其文档注释
func findStruct(file *ast.File, name string) (*ast.TypeSpec, *ast.CommentGroup) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.Name.Name != name {
				continue
			}
			if _, ok := typeSpec.Type.(*ast.StructType); !ok {
				continue
			}
			doc := typeSpec.Doc
			if doc == nil {
				doc = genDecl.Doc
			}
			return typeSpec, doc
		}
	}
	return nil, nil
}

// parseFields 按声明顺序解析具名字段
func parseFields(st *ast.StructType) ([]FieldInfo, error) {
	var fields []FieldInfo

	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			continue
		}

		var tag string
		if field.Tag != nil {
			unquoted, err := strconv.Unquote(field.Tag.Value)
			if err != nil {
				return nil, fmt.Errorf("字段标签 %s 无效: %w", field.Tag.Value, err)
			}
			tag = unquoted
		}

		annotations := fieldAnnotations(field)
		fieldType := types.ExprString(field.Type)

		for _, name := range field.Names {
			if name.Name == "_" {
				continue
			}
			fields = append(fields, FieldInfo{
				Name:        name.Name,
				Type:        fieldType,
				Tag:         tag,
				Annotations: annotations,
			})
		}
	}

	return fields, nil
}

// fieldAnnotations 收集字段上方文档注释和行尾注释中的注解
func fieldAnnotations(field *ast.Field) []*plugin.Annotation {
	var annotations []*plugin.Annotation
	if field.Doc != nil {
		annotations = append(annotations, plugin.ParseAnnotations(field.Doc.Text())...)
	}
	if field.Comment != nil {
		annotations = append(annotations, plugin.ParseAnnotations(field.Comment.Text())...)
	}
	return annotations
}
