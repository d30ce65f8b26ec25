package namesgen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"testing"

	"github.com/donutnomad/gonames/plugin"
	"github.com/stretchr/testify/require"
)

// literalPairs 从生成的代码中按顺序提取 <Name>Names 的键值对
func literalPairs(t *testing.T, src []byte) []NamePair {
	t.Helper()

	file, err := parser.ParseFile(token.NewFileSet(), "", src, 0)
	require.NoError(t, err)

	var pairs []NamePair
	ast.Inspect(file, func(n ast.Node) bool {
		lit, ok := n.(*ast.CompositeLit)
		if !ok {
			return true
		}
		for _, elt := range lit.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			require.True(t, ok)
			value, err := strconv.Unquote(kv.Value.(*ast.BasicLit).Value)
			require.NoError(t, err)
			pairs = append(pairs, NamePair{Ident: kv.Key.(*ast.Ident).Name, Value: value})
		}
		return false
	})
	return pairs
}

func fieldWith(name, tag, comment string) Field {
	return Field{
		Name:        name,
		Tag:         reflect.StructTag(tag),
		Annotations: plugin.ParseAnnotations(comment),
	}
}
