package namesgen

import (
	"fmt"

	"github.com/donutnomad/gonames/plugin"
)

// Sink 输出生成的代码
type Sink interface {
	Emit(decl *Declaration, text []byte) error
}

// SinkFunc 函数形式的 Sink
type SinkFunc func(decl *Declaration, text []byte) error

func (f SinkFunc) Emit(decl *Declaration, text []byte) error {
	return f(decl, text)
}

// ResultSink 将生成的代码合并到 plugin.GenerateResult 中，由 plugin.Run 统一写入文件
type ResultSink struct {
	Result  *plugin.GenerateResult
	PathFor func(decl *Declaration) string
}

func (s *ResultSink) Emit(decl *Declaration, text []byte) error {
	gen, err := plugin.ParseSourceToGG(text)
	if err != nil {
		return fmt.Errorf("输出 %s 失败: %w", decl.QualifiedName(), err)
	}
	path := s.PathFor(decl)
	if path == "" {
		return fmt.Errorf("输出 %s 失败: 没有输出路径", decl.QualifiedName())
	}
	s.Result.MergeDefinition(path, gen)
	s.Result.AddSource(path, decl.QualifiedName())
	return nil
}
