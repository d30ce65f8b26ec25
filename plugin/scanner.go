package plugin

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"sync"
)

// Scanner 两阶段并行注解扫描器
// 第一阶段：快速文本匹配，找出可能包含注解的文件
// 第二阶段：对匹配的文件进行 AST 解析
type Scanner struct {
	workers int
	verbose bool

	// 注解过滤器（可选）
	annotationFilter []string
}

// ScannerOption 扫描器选项
type ScannerOption func(*Scanner)

func WithWorkers(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithScannerVerbose(v bool) ScannerOption {
	return func(s *Scanner) {
		s.verbose = v
	}
}

func WithAnnotationFilter(annotations ...string) ScannerOption {
	return func(s *Scanner) {
		s.annotationFilter = annotations
	}
}

func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// quickMatchRegex 快速匹配注解的正则
var quickMatchRegex = regexp.MustCompile(`@(\w+)(?:\([^)]*\))?`)

// generatedSuffixes 生成文件的后缀，扫描时跳过
var generatedSuffixes = []string{"_test.go", "_gen.go", "_names.go"}

// IsGeneratedFile 检查文件是否是测试文件或生成的文件
func IsGeneratedFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

// Scan 扫描指定路径
// 支持: ./... ./pkg/... ./pkg /abs/path/... file.go
func (s *Scanner) Scan(ctx context.Context, patterns ...string) (*ScanResult, error) {
	allFiles, err := s.collectFiles(patterns)
	if err != nil {
		return nil, err
	}
	if len(allFiles) == 0 {
		return &ScanResult{}, nil
	}

	// ========== 第一阶段：快速匹配 ==========
	matchedFiles := s.quickMatch(ctx, allFiles)
	if len(matchedFiles) == 0 {
		return &ScanResult{}, nil
	}
	if s.verbose {
		fmt.Printf("快速匹配: %d/%d 个文件可能包含注解\n", len(matchedFiles), len(allFiles))
	}

	// ========== 第二阶段：AST 解析 ==========
	return s.parseFiles(ctx, matchedFiles)
}

// runWorkers 用 s.workers 个协程并行处理文件，fn 的结果通过返回的 channel 输出
func runWorkers[T any](ctx context.Context, workers int, files []string, fn func(string) T) <-chan T {
	resultCh := make(chan T, len(files))
	fileCh := make(chan string, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case file, ok := <-fileCh:
					if !ok {
						return
					}
					resultCh <- fn(file)
				}
			}
		}()
	}

	go func() {
		defer close(fileCh)
		for _, file := range files {
			select {
			case <-ctx.Done():
				return
			case fileCh <- file:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	return resultCh
}

// quickMatch 第一阶段：快速文本匹配
func (s *Scanner) quickMatch(ctx context.Context, files []string) []string {
	type matchResult struct {
		file    string
		matched bool
		err     error
	}

	results := runWorkers(ctx, s.workers, files, func(file string) matchResult {
		matched, err := s.QuickMatchFile(file)
		return matchResult{file: file, matched: matched, err: err}
	})

	var matchedFiles []string
	for r := range results {
		if r.err != nil {
			continue // 跳过读取失败的文件
		}
		if r.matched {
			matchedFiles = append(matchedFiles, r.file)
		}
	}
	slices.Sort(matchedFiles)
	return matchedFiles
}

// QuickMatchFile 快速检查文件是否包含注解或 go:gonames 配置
// 用于 dev 模式判断文件是否需要触发代码生成
func (s *Scanner) QuickMatchFile(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		// 只检查注释行
		if !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "/*") {
			continue
		}

		if strings.Contains(trimmed, "go:gonames:") {
			return true, nil
		}

		for _, match := range quickMatchRegex.FindAllStringSubmatch(trimmed, -1) {
			if len(s.annotationFilter) == 0 || slices.Contains(s.annotationFilter, match[1]) {
				return true, nil
			}
		}
	}

	return false, scanner.Err()
}

// fileScanResult 单个文件的解析结果
type fileScanResult struct {
	structs   []*AnnotatedTarget
	pkgConfig *PackageConfig
	err       error
}

// parseFiles 第二阶段：AST 解析
func (s *Scanner) parseFiles(ctx context.Context, files []string) (*ScanResult, error) {
	results := runWorkers(ctx, s.workers, files, s.parseFile)

	result := &ScanResult{
		PackageConfigs: make(map[string]*PackageConfig),
	}
	for r := range results {
		if r.err != nil {
			if s.verbose {
				fmt.Printf("解析失败: %v\n", r.err)
			}
			continue
		}
		result.Structs = append(result.Structs, r.structs...)
		if r.pkgConfig != nil {
			mergePackageConfig(result.PackageConfigs, r.pkgConfig)
		}
	}

	// 并行收集的顺序不确定，按文件和位置排序保证输出稳定
	slices.SortFunc(result.Structs, func(a, b *AnnotatedTarget) int {
		return cmp.Or(
			strings.Compare(a.Target.FilePath, b.Target.FilePath),
			cmp.Compare(a.Target.Position, b.Target.Position),
		)
	})

	return result, nil
}

// mergePackageConfig 合并同一包中多个文件的配置，冲突时后者覆盖前者
func mergePackageConfig(configs map[string]*PackageConfig, cfg *PackageConfig) {
	existing, ok := configs[cfg.PackageDir]
	if !ok {
		configs[cfg.PackageDir] = cfg
		return
	}

	if cfg.DefaultOutput != "" {
		if existing.DefaultOutput != "" && existing.DefaultOutput != cfg.DefaultOutput {
			fmt.Printf("警告: 包 %s 中存在多个不同的 go:gonames 默认输出配置，使用后发现的配置\n", cfg.PackageDir)
		}
		existing.DefaultOutput = cfg.DefaultOutput
	}
	for k, v := range cfg.PluginOutputs {
		if old, ok := existing.PluginOutputs[k]; ok && old != v {
			fmt.Printf("警告: 包 %s 中插件 %s 存在多个不同的输出配置，使用后发现的配置\n", cfg.PackageDir, k)
		}
		existing.PluginOutputs[k] = v
	}
}

// parseFile AST 解析单个文件
func (s *Scanner) parseFile(filePath string) (result fileScanResult) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments)
	if err != nil {
		result.err = err
		return
	}

	result.pkgConfig = s.parsePackageConfig(file, filePath)

	for _, decl := range file.Decls {
		if d, ok := decl.(*ast.GenDecl); ok && d.Tok == token.TYPE {
			s.parseTypeDecl(filePath, file.Name.Name, d, &result)
		}
	}
	return
}

// parseTypeDecl 解析类型声明
// 注解可以写在 type 关键字上方，也可以写在分组声明内的类型上方
func (s *Scanner) parseTypeDecl(filePath, packageName string, decl *ast.GenDecl, result *fileScanResult) {
	for _, spec := range decl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		if _, ok := typeSpec.Type.(*ast.StructType); !ok {
			continue
		}

		doc := typeSpec.Doc
		if doc == nil {
			doc = decl.Doc
		}
		if doc == nil {
			continue
		}

		annotations := ParseAnnotations(doc.Text())
		if len(s.annotationFilter) > 0 {
			annotations = FilterByNames(annotations, s.annotationFilter...)
		}
		if len(annotations) == 0 {
			continue
		}

		result.structs = append(result.structs, &AnnotatedTarget{
			Target: &Target{
				Kind:        TargetStruct,
				Name:        typeSpec.Name.Name,
				PackageName: packageName,
				FilePath:    filePath,
				Position:    typeSpec.Pos(),
				Node:        typeSpec,
			},
			Annotations: annotations,
		})
	}
}

// collectFiles 收集所有需要扫描的文件
func (s *Scanner) collectFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		recursive := strings.HasSuffix(pattern, "/...")
		pattern = strings.TrimSuffix(pattern, "/...")

		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if strings.HasSuffix(absPath, ".go") {
				add(absPath)
			}
			continue
		}

		err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != absPath && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata") {
					return filepath.SkipDir
				}
				if !recursive && path != absPath {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".go") && !IsGeneratedFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// directiveRegex 匹配 go:gonames: 指令
// 支持两种格式：//go:gonames: 和 // go:gonames:
var directiveRegex = regexp.MustCompile(`go:gonames:\s*(.*)`)

// parsePackageConfig 解析包级 go:gonames: 配置
// 支持格式:
//
//	//go:gonames: -output `$FILE_names`
//	// go:gonames: plugin:namesgen -output `0names_generated`
func (s *Scanner) parsePackageConfig(file *ast.File, filePath string) *PackageConfig {
	var directives []string

	for _, cg := range file.Comments {
		for _, c := range cg.List {
			text := strings.TrimPrefix(c.Text, "//")
			text = strings.TrimPrefix(text, "/*")
			text = strings.TrimSuffix(text, "*/")
			text = strings.TrimSpace(text)

			if matches := directiveRegex.FindStringSubmatch(text); len(matches) > 1 {
				directives = append(directives, matches[1])
			}
		}
	}

	switch len(directives) {
	case 0:
		return nil
	case 1:
		return parseDirectiveLine(directives[0], filePath)
	default:
		fmt.Printf("警告: 文件 %s 定义了多个 go:gonames: 指令，将被忽略\n", filePath)
		return nil
	}
}

// parseDirectiveLine 解析单行 go:gonames: 配置
// 格式:
//
//	-output `xxx`                                           // 默认输出
//	plugin:namesgen -output `xxx` plugin:other -output `yyy` // 插件特定输出
func parseDirectiveLine(line string, filePath string) *PackageConfig {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	config := &PackageConfig{
		PackageDir:    filepath.Dir(filePath),
		PluginOutputs: make(map[string]string),
	}

	parts := splitDirectiveArgs(line)

	var currentPlugin string
	for i := 0; i < len(parts); i++ {
		part := parts[i]
		switch {
		case strings.HasPrefix(part, "plugin:"):
			currentPlugin = strings.ToLower(strings.TrimPrefix(part, "plugin:"))
		case part == "-output" && i+1 < len(parts):
			i++
			output := trimQuotes(parts[i])
			if currentPlugin == "" {
				config.DefaultOutput = output
			} else {
				config.PluginOutputs[currentPlugin] = output
			}
		}
	}

	if config.DefaultOutput == "" && len(config.PluginOutputs) == 0 {
		return nil
	}
	return config
}

// splitDirectiveArgs 分割 go:gonames 参数，支持引号内的空格
func splitDirectiveArgs(line string) []string {
	var parts []string
	var current strings.Builder
	var quoteChar byte

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoteChar == 0 && (c == '`' || c == '"' || c == '\''):
			quoteChar = c
			current.WriteByte(c)
		case quoteChar != 0 && c == quoteChar:
			quoteChar = 0
			current.WriteByte(c)
		case quoteChar == 0 && c == ' ':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(c)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// trimQuotes 去除成对的引号
func trimQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '`' || first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
