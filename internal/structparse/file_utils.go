package structparse

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/donutnomad/gonames/plugin"
)

// listSourceFiles 列出目录下的 Go 源文件（不递归），跳过测试文件和生成文件
func listSourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || plugin.IsGeneratedFile(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	slices.Sort(files)
	return files, nil
}
