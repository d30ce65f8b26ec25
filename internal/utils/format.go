package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/tools/imports"
)

// FormatSource 按 gofmt 规则格式化源码，不增删 imports
func FormatSource(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

// formatFile 格式化即将写入的文件，并整理 imports
func formatFile(path string, src []byte) ([]byte, error) {
	formatted, err := imports.Process(path, src, nil)
	if err != nil {
		return nil, fmt.Errorf("格式化 %s 失败: %w", path, err)
	}
	return formatted, nil
}

// readExisting 读取已存在的文件，文件不存在时返回 nil
func readExisting(path string) ([]byte, error) {
	old, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return old, err
}

// WriteFormat 格式化后写入文件
// 内容与已有文件一致时不写入，返回 false，保证重复生成是幂等的
func WriteFormat(path string, src []byte) (bool, error) {
	formatted, err := formatFile(path, src)
	if err != nil {
		return false, err
	}

	old, err := readExisting(path)
	if err != nil {
		return false, err
	}
	if old != nil && bytes.Equal(old, formatted) {
		return false, nil
	}

	if err := os.WriteFile(path, formatted, 0644); err != nil {
		return false, err
	}
	return true, nil
}

// DiffFormat 格式化后与已有文件比较，返回 unified diff
// 文件不存在时与空文件比较
func DiffFormat(path string, src []byte) (string, bool, error) {
	formatted, err := formatFile(path, src)
	if err != nil {
		return "", false, err
	}

	old, err := readExisting(path)
	if err != nil {
		return "", false, err
	}
	if bytes.Equal(old, formatted) {
		return "", false, nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(old)),
		B:        difflib.SplitLines(string(formatted)),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	})
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}
