package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/donutnomad/gg"
	"github.com/donutnomad/gonames/internal/utils"
)

// FileHeader 生成文件的头部注释
const FileHeader = "Code generated by gonames. DO NOT EDIT."

// RunOptions 运行选项
type RunOptions struct {
	Registry *Registry
	Patterns []string
	Verbose  bool
	Output   string // 命令行指定的默认输出路径（最低优先级）
	Async    bool   // 是否异步执行生成器
	Diff     bool   // 只打印变更的 diff，不写入文件
}

// RunStats 运行统计信息
type RunStats struct {
	ScanDuration     time.Duration // 扫描耗时
	GenerateDuration time.Duration // 生成耗时
	TotalDuration    time.Duration // 总耗时
	TargetCount      int           // 目标数量
	FileCount        int           // 写入（或有变更）的文件数量
	UnchangedCount   int           // 内容未变化而跳过的文件数量
	WarningCount     int           // 警告数量
	Errors           []error       // 所有错误，已打印
}

// genResultItem 存储单个生成器的执行结果
type genResultItem struct {
	genName string
	result  *GenerateResult
	err     error
}

// RunWithOptionsAndStats 运行代码生成并返回统计信息
// 1. 扫描指定路径的注解
// 2. 将目标分发给对应的生成器
// 3. 执行生成器
// 4. 合并同一文件的 gg 定义并写入文件
func RunWithOptionsAndStats(ctx context.Context, opts *RunOptions) (*RunStats, error) {
	totalStart := time.Now()
	stats := &RunStats{}

	registry := opts.Registry
	if registry == nil {
		registry = globalRegistry
	}

	annotations := registry.Annotations()
	if len(annotations) == 0 {
		return nil, fmt.Errorf("没有已注册的生成器")
	}

	// 扫描
	scanStart := time.Now()
	scanner := NewScanner(
		WithAnnotationFilter(annotations...),
		WithScannerVerbose(opts.Verbose),
	)
	result, err := scanner.Scan(ctx, opts.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("扫描失败: %w", err)
	}
	stats.ScanDuration = time.Since(scanStart)

	if len(result.All()) == 0 {
		if opts.Verbose {
			fmt.Println("没有找到任何带注解的目标")
		}
		stats.TotalDuration = time.Since(totalStart)
		return stats, nil
	}

	stats.TargetCount = len(result.All())
	if opts.Verbose {
		fmt.Printf("找到 %d 个带注解的目标 (扫描耗时: %v)\n", stats.TargetCount, stats.ScanDuration)
	}

	generateStart := time.Now()

	dispatch := registry.DispatchTargets(result)

	// 按优先级排序生成器名称（优先级数字越小越靠前）
	var genNames []string
	for _, gen := range registry.Generators() {
		if _, ok := dispatch[gen.Name()]; ok {
			genNames = append(genNames, gen.Name())
		}
	}

	// 先串行解析所有目标的参数（避免并发修改共享数据）
	allErrors := parseTargetParams(registry, genNames, dispatch)

	executeGenerator := func(genName string) genResultItem {
		targets := dispatch[genName]
		gen, _ := registry.GetByName(genName)

		if opts.Verbose {
			fmt.Printf("执行生成器: %s (开始处理 %d 个目标)\n", genName, len(targets))
		}

		genCtx := &GenerateContext{
			Targets:        targets,
			PackageConfigs: result.PackageConfigs,
			DefaultOutput:  opts.Output,
			Verbose:        opts.Verbose,
		}

		start := time.Now()
		genResult, err := gen.Generate(genCtx)
		if opts.Verbose {
			fmt.Printf("执行生成器: %s (耗时: %v)\n", genName, time.Since(start))
		}
		return genResultItem{genName: genName, result: genResult, err: err}
	}

	genResults := make(map[string]*GenerateResult)
	collect := func(item genResultItem) {
		if item.err != nil {
			allErrors = append(allErrors, fmt.Errorf("生成器 %s 执行失败: %w", item.genName, item.err))
			return
		}
		if item.result != nil {
			genResults[item.genName] = item.result
		}
	}

	if opts.Async {
		resultChan := make(chan genResultItem, len(genNames))
		var wg sync.WaitGroup
		for _, genName := range genNames {
			wg.Add(1)
			go func(genName string) {
				defer wg.Done()
				resultChan <- executeGenerator(genName)
			}(genName)
		}
		go func() {
			wg.Wait()
			close(resultChan)
		}()
		for item := range resultChan {
			collect(item)
		}
	} else {
		for _, genName := range genNames {
			collect(executeGenerator(genName))
		}
	}

	// 按优先级顺序收集 gg 定义，按输出路径分组
	fileDefinitions := make(map[string][]*gg.Generator)
	fileGenNames := make(map[string][]string)
	fileSources := make(map[string][]string)
	for _, genName := range genNames {
		genResult, ok := genResults[genName]
		if !ok {
			continue
		}

		for path, def := range genResult.Definitions {
			fileDefinitions[path] = append(fileDefinitions[path], def)
			fileGenNames[path] = append(fileGenNames[path], genName)
			fileSources[path] = append(fileSources[path], genResult.Sources[path]...)
		}

		for _, w := range genResult.Warnings {
			fmt.Printf("[%s] 警告: %s\n", genName, w)
		}
		stats.WarningCount += len(genResult.Warnings)
		allErrors = append(allErrors, genResult.Errors...)
	}

	paths := make([]string, 0, len(fileDefinitions))
	for path := range fileDefinitions {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	for _, path := range paths {
		merged, err := mergeDefinitionsWithSeparator(fileDefinitions[path], fileGenNames[path])
		if err != nil {
			allErrors = append(allErrors, fileErrors(path, fileSources[path], fmt.Errorf("合并定义失败: %w", err))...)
			continue
		}

		changed, err := emitFile(path, merged, opts.Diff)
		switch {
		case err != nil:
			allErrors = append(allErrors, fileErrors(path, fileSources[path], err)...)
		case !changed:
			stats.UnchangedCount++
			if opts.Verbose {
				fmt.Printf("文件未变化: %s\n", path)
			}
		default:
			stats.FileCount++
			if !opts.Diff {
				fmt.Printf("生成文件: %s\n", path)
			}
		}
	}

	stats.GenerateDuration = time.Since(generateStart)
	stats.TotalDuration = time.Since(totalStart)

	if len(allErrors) > 0 {
		stats.Errors = allErrors
		for _, e := range allErrors {
			fmt.Printf("错误: %v\n", e)
		}
		return stats, fmt.Errorf("生成过程中出现 %d 个错误", len(allErrors))
	}

	return stats, nil
}

// fileErrors 文件输出失败时，为文件中的每个声明各生成一条错误
// 生成器没有记录声明时只报告文件本身
func fileErrors(path string, sources []string, err error) []error {
	if len(sources) == 0 {
		return []error{fmt.Errorf("写入文件 %s 失败: %w", path, err)}
	}
	errs := make([]error, 0, len(sources))
	for _, name := range sources {
		errs = append(errs, fmt.Errorf("输出 %s 失败: 写入文件 %s: %w", name, path, err))
	}
	return errs
}

// parseTargetParams 将每个目标的注解参数解析到生成器的参数结构体中
func parseTargetParams(registry *Registry, genNames []string, dispatch map[string][]*AnnotatedTarget) []error {
	var errs []error

	for _, genName := range genNames {
		gen, ok := registry.GetByName(genName)
		if !ok {
			continue
		}

		paramDefs := gen.ParamDefs()
		for _, target := range dispatch[genName] {
			paramsProto := gen.NewParams()
			if paramsProto == nil {
				continue // 该生成器不需要参数
			}

			var targetAnn *Annotation
			for _, ann := range target.Annotations {
				if slices.Contains(gen.Annotations(), ann.Name) {
					targetAnn = ann
					break
				}
			}
			if targetAnn == nil {
				continue
			}

			if err := ParseAnnotationParams(targetAnn, paramsProto, paramDefs); err != nil {
				errs = append(errs, fmt.Errorf("解析 %s 的参数失败: %w", target.Target.Name, err))
				continue
			}
			val := reflect.ValueOf(paramsProto)
			if val.Kind() != reflect.Ptr {
				errs = append(errs, fmt.Errorf("NewParams() 必须返回指针类型, 得到: %T", paramsProto))
				continue
			}
			target.ParsedParams = val.Elem().Interface()
		}
	}

	return errs
}

// mergeDefinitionsWithSeparator 合并多个 gg.Generator 定义到一个文件，并添加分隔符
func mergeDefinitionsWithSeparator(definitions []*gg.Generator, genNames []string) (*gg.Generator, error) {
	if len(definitions) == 0 {
		return nil, fmt.Errorf("没有定义需要合并")
	}

	merged := gg.New()
	merged.SetHeader(FileHeader)

	var pkgName string
	for _, def := range definitions {
		if def.PackageName() == "" {
			continue
		}
		if pkgName == "" {
			pkgName = def.PackageName()
		} else if pkgName != def.PackageName() {
			return nil, fmt.Errorf("包名不一致: %s vs %s", pkgName, def.PackageName())
		}
	}
	if pkgName != "" {
		merged.SetPackage(pkgName)
	}

	// 只有一个生成器时不需要分隔符
	if len(definitions) == 1 {
		merged.Merge(definitions[0])
		return merged, nil
	}

	// 不要手动收集 imports，Merge 会正确处理 imports 和别名
	for i, def := range definitions {
		genName := "unknown"
		if i < len(genNames) {
			genName = genNames[i]
		}
		merged.Body().AddLine()
		merged.Body().AddString(fmt.Sprintf("// ================ %s ================", genName))
		merged.Body().AddLine()
		merged.Merge(def)
	}

	return merged, nil
}

// emitFile 将 gg 定义写入文件
// diff 为 true 时只打印与现有文件的差异
// 返回文件内容是否发生变化
func emitFile(path string, gen *gg.Generator, diff bool) (bool, error) {
	if diff {
		text, changed, err := utils.DiffFormat(path, gen.Bytes())
		if err != nil {
			return false, err
		}
		if changed {
			fmt.Print(text)
		}
		return changed, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("创建目录失败: %w", err)
	}
	return utils.WriteFormat(path, gen.Bytes())
}

// GetOutputPath 根据注解参数和默认规则计算输出路径
// 优先级：注解参数 > 包级插件配置 > 包级默认配置 > 命令行参数 > 默认文件名
// 模板变量：
//   - $FILE: 源文件名（不含 .go 后缀）
//   - $PACKAGE: 包名
//   - $TYPE: 目标类型名的蛇形命名
func GetOutputPath(target *Target, ann *Annotation, defaultFileName string, pkgConfig *PackageConfig, pluginName string, cmdOutput string) string {
	output := ann.GetParam("output")

	if output == "" && pkgConfig != nil {
		output = pkgConfig.GetPluginOutput(strings.ToLower(pluginName))
	}

	if output == "" {
		output = cmdOutput
	}

	if output == "" {
		return GetDefaultOutputPath(target, defaultFileName)
	}

	output = replaceTemplateVars(output, target)
	if !strings.HasSuffix(output, ".go") {
		output += ".go"
	}

	if filepath.IsAbs(output) {
		return output
	}
	// 相对于源文件目录
	return filepath.Join(filepath.Dir(target.FilePath), output)
}

// replaceTemplateVars 替换模板变量
func replaceTemplateVars(template string, target *Target) string {
	fileName := strings.TrimSuffix(filepath.Base(target.FilePath), ".go")
	template = strings.ReplaceAll(template, "$FILE", fileName)
	template = strings.ReplaceAll(template, "$PACKAGE", target.PackageName)
	template = strings.ReplaceAll(template, "$TYPE", utils.ToSnakeCase(target.Name))
	return template
}

// GetDefaultOutputPath 获取默认输出路径，位于源文件所在目录
func GetDefaultOutputPath(target *Target, defaultFileName string) string {
	if defaultFileName == "" {
		defaultFileName = "generate.go"
	}
	defaultFileName = replaceTemplateVars(defaultFileName, target)
	return filepath.Join(filepath.Dir(target.FilePath), defaultFileName)
}
