package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/donutnomad/gonames/namesgen"
	"github.com/donutnomad/gonames/plugin"
	"github.com/samber/lo"
)

func init() {
	plugin.MustRegister(namesgen.NewNamesGenerator())
}

var (
	verbose  = flag.Bool("v", false, "详细输出")
	help     = flag.Bool("h", false, "显示帮助信息")
	output   = flag.String("output", "", "默认输出路径（支持模板变量 $FILE, $PACKAGE, $TYPE），为空时使用各生成器的默认文件")
	noOutput = flag.Bool("no-output", false, "忽略 -output（每个生成器输出到自己的默认文件）")
	async    = flag.Bool("async", true, "异步执行生成器")
	diff     = flag.Bool("diff", false, "只打印生成文件的 diff，不写入")
	debounce = flag.Duration("debounce", 500*time.Millisecond, "dev 模式的防抖动时间")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		runGen(nil)
		return
	}

	switch args[0] {
	case "gen":
		runGen(args[1:])
	case "dev":
		runDev(args[1:])
	default:
		// 不是子命令，当作路径参数处理
		runGen(args)
	}
}

// outputPath -no-output 时返回空字符串
func outputPath() string {
	if *noOutput {
		return ""
	}
	return *output
}

func runGen(patterns []string) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	registry := plugin.Global()
	if len(registry.Generators()) == 0 {
		fmt.Fprintln(os.Stderr, "错误: 没有已注册的生成器")
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("已注册 %d 个生成器:\n", len(registry.Generators()))
		for _, gen := range registry.Generators() {
			anns := lo.Map(gen.Annotations(), func(item string, _ int) string {
				return "@" + item
			})
			fmt.Printf("  - %s (%s)\n", gen.Name(), strings.Join(anns, ","))
		}
		fmt.Println()
	}

	stats, err := plugin.RunWithOptionsAndStats(context.Background(), &plugin.RunOptions{
		Registry: registry,
		Patterns: patterns,
		Verbose:  *verbose,
		Output:   outputPath(),
		Async:    *async,
		Diff:     *diff,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}

	if stats != nil && (stats.FileCount > 0 || *verbose) {
		action := "生成"
		if *diff {
			action = "变更"
		}
		fmt.Printf("\n统计: 扫描 %d 个目标, %s %d 个文件, 未变化 %d 个, 警告 %d 条\n",
			stats.TargetCount, action, stats.FileCount, stats.UnchangedCount, stats.WarningCount)
		fmt.Printf("耗时: 扫描 %v, 生成 %v, 总计 %v\n", stats.ScanDuration, stats.GenerateDuration, stats.TotalDuration)
	}
}

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, `gonames - 为 Go 结构体生成字段名称常量

用法:
  gonames [选项] [路径...]
  gonames gen [选项] [路径...]
  gonames dev [选项] [路径...]

命令:
  gen     执行代码生成（默认）
  dev     启动开发模式，监听文件变动自动生成

路径:
  支持 Go 包路径模式，如:
    ./...          递归扫描当前目录及子目录（默认）
    ./models       只扫描 models 目录
    ./models/...   递归扫描 models 目录

选项:
`)
	flag.PrintDefaults()

	registry := plugin.Global()
	if len(registry.Generators()) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "\n支持的注解:\n")
		_, _ = fmt.Fprint(os.Stderr, plugin.FormatHelpText(registry))
	}

	_, _ = fmt.Fprintf(os.Stderr, `注解类型:
  @Names(annotations="json,Tag") 中的候选名称按以下顺序查找:
    1. 同一个包中标记了 // @Annotation 的接口（方法即参数）
    2. 内置的结构体标签: json yaml xml toml bson db form mapstructure msgpack gorm
    3. 其他名称当作原始结构体标签

模板变量:
  $FILE     - 源文件名（不含 .go 后缀）
  $PACKAGE  - 包名
  $TYPE     - 结构体名的蛇形命名

示例:
  gonames                                   扫描当前目录（默认 ./...）
  gonames -v ./models/...                   详细模式扫描 models 目录
  gonames -output '$PACKAGE_names' ./...    所有结构体输出到同一个文件
  gonames -diff ./...                       只查看会产生的变化
  gonames dev ./...                         开发模式，监听文件变动
`)
}
