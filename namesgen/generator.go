package namesgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/donutnomad/gonames/internal/structparse"
	"github.com/donutnomad/gonames/plugin"
	"github.com/samber/lo"
)

const (
	generatorName  = "namesgen"
	annotationName = "Names"
	defaultOutput  = "$FILE_names.go"
)

// NamesParams 定义 Names 注解支持的参数
type NamesParams struct {
	Annotations string `param:"name=annotations,required=false,default=,description=候选注解类型，按优先级排列: json\\,Tag 或 json|Tag"`
	Output      string `param:"name=output,required=false,default=$FILE_names.go,description=输出文件路径"`
}

// NamesGenerator 实现 plugin.Generator 接口
type NamesGenerator struct {
	plugin.BaseGenerator
}

func NewNamesGenerator() *NamesGenerator {
	gen := &NamesGenerator{
		BaseGenerator: *plugin.NewBaseGeneratorWithParamsStruct(
			generatorName,
			[]string{annotationName},
			[]plugin.TargetKind{plugin.TargetStruct},
			NamesParams{},
		),
	}
	gen.SetPriority(30)
	return gen
}

// Generate 执行代码生成
func (g *NamesGenerator) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	result := plugin.NewGenerateResult()
	if len(ctx.Targets) == 0 {
		return result, nil
	}

	parseCtx := structparse.NewParseContext()
	paths := make(map[*Declaration]string, len(ctx.Targets))
	var jobs []Job

	for _, at := range ctx.Targets {
		ann := plugin.GetAnnotation(at.Annotations, annotationName)
		if ann == nil {
			result.Skipped++
			continue
		}

		var params NamesParams
		if at.ParsedParams != nil {
			var ok bool
			params, ok = at.ParsedParams.(NamesParams)
			if !ok {
				result.AddError(fmt.Errorf("ParsedParams 类型断言失败: %T", at.ParsedParams))
				continue
			}
		}

		info, err := parseCtx.ParseStruct(at.Target.FilePath, at.Target.Name)
		if err != nil {
			result.AddError(fmt.Errorf("解析结构体 %s 失败: %w", at.Target.Name, err))
			continue
		}
		decl := NewDeclaration(info)

		pkgDir := filepath.Dir(at.Target.FilePath)
		declared, err := declaredTypes(parseCtx, pkgDir)
		if err != nil {
			result.AddError(fmt.Errorf("解析 %s 的注解类型失败: %w", decl.QualifiedName(), err))
			continue
		}

		candidates := ResolveCandidates(ParseCandidateList(params.Annotations), declared)
		paths[decl] = plugin.GetOutputPath(at.Target, ann, defaultOutput, ctx.GetPackageConfig(pkgDir), g.Name(), ctx.DefaultOutput)
		jobs = append(jobs, Job{Decl: decl, Candidates: candidates})

		if ctx.Verbose {
			fmt.Printf("[namesgen] 处理结构体 %s -> %s\n", decl.QualifiedName(), paths[decl])
		}
	}

	sink := &ResultSink{
		Result:  result,
		PathFor: func(decl *Declaration) string { return paths[decl] },
	}

	for _, outcome := range NewPipeline(sink).Run(jobs) {
		for _, w := range outcome.Warnings {
			result.AddWarning(w)
		}
		if outcome.Err != nil {
			result.AddError(outcome.Err)
			continue
		}
		if ctx.Verbose {
			fmt.Printf("[namesgen] %s", spew.Sdump(outcome.Artifact.Pairs))
		}
	}

	return result, nil
}

// declaredTypes 包内声明的 @Annotation 接口，ParseContext 按目录缓存
func declaredTypes(parseCtx *structparse.ParseContext, dir string) ([]*AnnotationType, error) {
	infos, err := parseCtx.ParseAnnotationTypes(dir)
	if err != nil {
		return nil, err
	}
	return lo.Map(infos, func(info structparse.InterfaceInfo, _ int) *AnnotationType {
		return FromInterface(info)
	}), nil
}

// ParseCandidateList 解析候选注解列表
// 支持 json,Tag | json|Tag | [json,Tag]，保留顺序，忽略重复和空项
func ParseCandidateList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")

	names := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|'
	})
	names = lo.Map(names, func(name string, _ int) string {
		return strings.Trim(strings.TrimSpace(name), `"'`+"`")
	})
	return lo.Uniq(lo.Compact(names))
}
