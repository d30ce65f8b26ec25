package structparse

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// moduleInfo 模块根目录和模块路径
type moduleInfo struct {
	root string
	path string
}

// ImportPath 推断目录对应的包导入路径
// 目录不在任何模块中时返回错误
func (c *ParseContext) ImportPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	mod, err := c.findModule(absDir)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(mod.root, absDir)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return mod.path, nil
	}
	return mod.path + "/" + filepath.ToSlash(rel), nil
}

// findModule 从 dir 向上查找 go.mod
func (c *ParseContext) findModule(dir string) (moduleInfo, error) {
	c.mu.Lock()
	mod, ok := c.modules[dir]
	c.mu.Unlock()
	if ok {
		return mod, nil
	}

	for cur := dir; ; {
		content, err := os.ReadFile(filepath.Join(cur, "go.mod"))
		if err == nil {
			path := modfile.ModulePath(content)
			if path == "" {
				return moduleInfo{}, fmt.Errorf("未在 %s/go.mod 中找到模块名称", cur)
			}
			mod = moduleInfo{root: cur, path: path}
			break
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return moduleInfo{}, fmt.Errorf("未找到项目根目录（go.mod文件）从 %s 开始", dir)
		}
		cur = parent
	}

	c.mu.Lock()
	c.modules[dir] = mod
	c.mu.Unlock()
	return mod, nil
}
