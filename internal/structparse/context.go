package structparse

import "sync"

// ParseContext 解析上下文，缓存同一次生成过程中的重复查询
type ParseContext struct {
	mu              sync.Mutex
	modules         map[string]moduleInfo      // 目录 -> 所属模块
	annotationTypes map[string][]InterfaceInfo // 包目录 -> 注解类型
}

// NewParseContext 创建解析上下文
func NewParseContext() *ParseContext {
	return &ParseContext{
		modules:         make(map[string]moduleInfo),
		annotationTypes: make(map[string][]InterfaceInfo),
	}
}
