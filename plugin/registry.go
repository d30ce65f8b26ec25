package plugin

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry 生成器注册表，一个注解只能绑定一个生成器
type Registry struct {
	mu         sync.RWMutex
	byName     map[string]Generator // 生成器名 -> 生成器
	annotation map[string]Generator // 注解名 -> 生成器
}

func NewRegistry() *Registry {
	return &Registry{
		byName:     make(map[string]Generator),
		annotation: make(map[string]Generator),
	}
}

// Register 注册生成器，生成器名或任一注解已被占用时返回错误，注册表保持不变
func (r *Registry) Register(gen Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[gen.Name()]; ok {
		return fmt.Errorf("生成器 %q 已注册", gen.Name())
	}
	for _, ann := range gen.Annotations() {
		if owner, ok := r.annotation[ann]; ok {
			return fmt.Errorf("注解 @%s 已绑定到 %q，%q 不能重复绑定", ann, owner.Name(), gen.Name())
		}
	}

	r.byName[gen.Name()] = gen
	for _, ann := range gen.Annotations() {
		r.annotation[ann] = gen
	}
	return nil
}

func (r *Registry) MustRegister(gen Generator) {
	if err := r.Register(gen); err != nil {
		panic(err)
	}
}

func (r *Registry) GetByName(name string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.byName[name]
	return gen, ok
}

// Generators 按优先级排序，优先级相同时按名称排序
func (r *Registry) Generators() []Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.SortedFunc(maps.Values(r.byName), func(a, b Generator) int {
		return cmp.Or(cmp.Compare(a.Priority(), b.Priority()), cmp.Compare(a.Name(), b.Name()))
	})
}

// Annotations 所有已绑定的注解名，已排序
func (r *Registry) Annotations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.annotation))
}

// DispatchTargets 按生成器名分组扫描到的目标，保持扫描顺序
// 目标带有同一生成器的多个注解时只分发一次，目标类型不受支持时跳过
func (r *Registry) DispatchTargets(result *ScanResult) map[string][]*AnnotatedTarget {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dispatch := make(map[string][]*AnnotatedTarget)
	for _, target := range result.All() {
		var claimed []string
		for _, ann := range target.Annotations {
			gen, ok := r.annotation[ann.Name]
			if !ok || slices.Contains(claimed, gen.Name()) || !slices.Contains(gen.SupportedTargets(), target.Target.Kind) {
				continue
			}
			claimed = append(claimed, gen.Name())
			dispatch[gen.Name()] = append(dispatch[gen.Name()], target)
		}
	}
	return dispatch
}

var globalRegistry = NewRegistry()

// Global 返回全局注册表，main 在 init 中向其注册所有生成器
func Global() *Registry {
	return globalRegistry
}

func MustRegister(gen Generator) {
	globalRegistry.MustRegister(gen)
}
