package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGenerator 测试用生成器
type testGenerator struct {
	BaseGenerator
}

func (g *testGenerator) Generate(ctx *GenerateContext) (*GenerateResult, error) {
	return NewGenerateResult(), nil
}

func newTestGenerator(name string, priority int, annotations ...string) *testGenerator {
	base := NewBaseGenerator(name, annotations, []TargetKind{TargetStruct})
	base.SetPriority(priority)
	return &testGenerator{BaseGenerator: *base}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(newTestGenerator("gen1", 100, "Names")))
	require.NoError(t, registry.Register(newTestGenerator("gen2", 100, "Mapper", "Alias")))

	assert.Equal(t, []string{"Alias", "Mapper", "Names"}, registry.Annotations())

	err := registry.Register(newTestGenerator("gen3", 100, "Names"))
	require.Error(t, err, "注解重复绑定应失败")
	assert.Contains(t, err.Error(), "gen1")

	require.Error(t, registry.Register(newTestGenerator("gen1", 100, "Fresh")), "生成器名重复应失败")
	assert.NotContains(t, registry.Annotations(), "Fresh", "注册失败时不绑定任何注解")

	gen, ok := registry.GetByName("gen1")
	require.True(t, ok)
	assert.Equal(t, []string{"Names"}, gen.Annotations())

	_, ok = registry.GetByName("gen3")
	assert.False(t, ok)

	assert.Equal(t, []string{"Alias", "Mapper", "Names"}, registry.Annotations())
}

func TestRegistry_GeneratorsOrder(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(newTestGenerator("b", 50, "B"))
	registry.MustRegister(newTestGenerator("c", 10, "C"))
	registry.MustRegister(newTestGenerator("a", 50, "A"))

	var names []string
	for _, gen := range registry.Generators() {
		names = append(names, gen.Name())
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)

	assert.Panics(t, func() { registry.MustRegister(newTestGenerator("d", 1, "A")) })
}

func TestRegistry_DispatchTargets(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(newTestGenerator("gen", 100, "Names", "Alias"))

	user := &AnnotatedTarget{
		Target:      &Target{Kind: TargetStruct, Name: "User"},
		Annotations: ParseAnnotations("// @Names @Alias"),
	}
	order := &AnnotatedTarget{
		Target:      &Target{Kind: TargetStruct, Name: "Order"},
		Annotations: ParseAnnotations("// @Other"),
	}

	dispatch := registry.DispatchTargets(&ScanResult{Structs: []*AnnotatedTarget{user, order}})
	require.Len(t, dispatch, 1)
	assert.Equal(t, []*AnnotatedTarget{user}, dispatch["gen"], "同一目标只分发一次")
}
