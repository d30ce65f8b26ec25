package structparse

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"

	"github.com/donutnomad/gonames/plugin"
)

// ParseAnnotationTypes 解析目录中声明的注解类型（标记了 @Annotation 的接口）
// 结果按文件名和声明顺序排列，同一目录只解析一次
func (c *ParseContext) ParseAnnotationTypes(dir string) ([]InterfaceInfo, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	cached, ok := c.annotationTypes[absDir]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	files, err := listSourceFiles(absDir)
	if err != nil {
		return nil, fmt.Errorf("读取目录 %s 失败: %w", absDir, err)
	}

	var result []InterfaceInfo
	for _, file := range files {
		infos, err := parseAnnotationInterfaces(file)
		if err != nil {
			return nil, err
		}
		result = append(result, infos...)
	}

	c.mu.Lock()
	c.annotationTypes[absDir] = result
	c.mu.Unlock()
	return result, nil
}

// parseAnnotationInterfaces 解析单个文件中的注解类型接口
func parseAnnotationInterfaces(filename string) ([]InterfaceInfo, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("解析文件 %s 失败: %w", filename, err)
	}

	var result []InterfaceInfo
	for _, decl := range node.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			iface, ok := typeSpec.Type.(*ast.InterfaceType)
			if !ok {
				continue
			}

			doc := typeSpec.Doc
			if doc == nil {
				doc = genDecl.Doc
			}
			if doc == nil || !plugin.HasAnnotation(plugin.ParseAnnotations(doc.Text()), AnnotationMarker) {
				continue
			}

			result = append(result, InterfaceInfo{
				Name:     typeSpec.Name.Name,
				FilePath: filename,
				Methods:  parseMethods(iface),
			})
		}
	}
	return result, nil
}

// parseMethods 按声明顺序解析接口方法，嵌入的接口和类型约束被忽略
func parseMethods(iface *ast.InterfaceType) []MethodInfo {
	var methods []MethodInfo
	for _, m := range iface.Methods.List {
		funcType, ok := m.Type.(*ast.FuncType)
		if !ok || len(m.Names) == 0 {
			continue
		}

		var results []string
		if funcType.Results != nil {
			for _, r := range funcType.Results.List {
				typeStr := types.ExprString(r.Type)
				n := max(len(r.Names), 1)
				for range n {
					results = append(results, typeStr)
				}
			}
		}

		for _, name := range m.Names {
			methods = append(methods, MethodInfo{Name: name.Name, Results: results})
		}
	}
	return methods
}
