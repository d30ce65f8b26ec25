package plugin

import "reflect"

// Generator 绑定一组注解的代码生成器，如 namesgen 绑定 @Names
type Generator interface {
	Name() string
	// Annotations 绑定的注解名，一个注解只能属于一个生成器
	Annotations() []string
	SupportedTargets() []TargetKind
	ParamDefs() []ParamDef
	// NewParams 返回参数结构体的新指针，nil 表示没有参数
	NewParams() any
	// Priority 数字越小越靠前，决定执行顺序和同一文件中的输出顺序
	Priority() int
	Generate(ctx *GenerateContext) (*GenerateResult, error)
}

// BaseGenerator 嵌入到具体生成器中，只需再实现 Generate
type BaseGenerator struct {
	name        string
	annotations []string
	targets     []TargetKind
	paramDefs   []ParamDef
	paramsProto any
	priority    int
}

func NewBaseGenerator(name string, annotations []string, targets []TargetKind) *BaseGenerator {
	return &BaseGenerator{
		name:        name,
		annotations: annotations,
		targets:     targets,
		priority:    100,
	}
}

// NewBaseGeneratorWithParamsStruct paramsProto 是参数结构体的零值，如 NamesParams{}
func NewBaseGeneratorWithParamsStruct(name string, annotations []string, targets []TargetKind, paramsProto any) *BaseGenerator {
	gen := NewBaseGenerator(name, annotations, targets)
	gen.paramDefs = ParseParamsFromStruct(paramsProto)
	gen.paramsProto = paramsProto
	return gen
}

func (g *BaseGenerator) Name() string {
	return g.name
}

func (g *BaseGenerator) Annotations() []string {
	return g.annotations
}

func (g *BaseGenerator) SupportedTargets() []TargetKind {
	return g.targets
}

func (g *BaseGenerator) ParamDefs() []ParamDef {
	return g.paramDefs
}

func (g *BaseGenerator) NewParams() any {
	if g.paramsProto == nil {
		return nil
	}
	typ := reflect.TypeOf(g.paramsProto)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return reflect.New(typ).Interface()
}

func (g *BaseGenerator) Priority() int {
	return g.priority
}

// SetPriority 设置生成器优先级，数字越小优先级越高
func (g *BaseGenerator) SetPriority(priority int) *BaseGenerator {
	g.priority = priority
	return g
}
