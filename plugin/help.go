package plugin

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// FormatHelpText 为所有注册的生成器生成帮助文本
func FormatHelpText(registry *Registry) string {
	generators := registry.Generators()
	if len(generators) == 0 {
		return "  (暂无已注册的生成器)\n"
	}

	var sb strings.Builder

	for _, gen := range generators {
		annotations := gen.Annotations()
		if len(annotations) == 0 {
			continue
		}

		mainAnnotation := annotations[0]
		paramDefs := gen.ParamDefs()

		targets := make([]string, 0, len(gen.SupportedTargets()))
		for _, kind := range gen.SupportedTargets() {
			targets = append(targets, kind.String())
		}
		fmt.Fprintf(&sb, "  @%s - %s (目标: %s)\n", mainAnnotation, gen.Name(), strings.Join(targets, ", "))

		sb.WriteString("    参数:\n")
		rows := [][2]string{{"output", "输出文件路径（支持 $FILE, $PACKAGE, $TYPE）"}}
		for _, param := range paramDefs {
			if param.Name != "output" {
				rows = append(rows, [2]string{paramHead(param), param.Description})
			}
		}
		writeAligned(&sb, "      ", rows)

		sb.WriteString("    示例:\n")
		fmt.Fprintf(&sb, "      @%s\n", mainAnnotation)
		fmt.Fprintf(&sb, "      @%s(output=$FILE_%s.go)\n", mainAnnotation, strings.ToLower(mainAnnotation))
		for _, param := range paramDefs {
			if param.Default != "" && param.Name != "output" {
				fmt.Fprintf(&sb, "      @%s(%s=%s)\n", mainAnnotation, param.Name, param.Default)
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// paramHead 参数名及其必填、默认值标记
func paramHead(param ParamDef) string {
	head := param.Name
	if param.Required {
		head += " (必填)"
	}
	if param.Default != "" {
		head += fmt.Sprintf(" [默认: %s]", param.Default)
	}
	return head
}

// writeAligned 按显示宽度对齐两列，中文字符占两列
func writeAligned(sb *strings.Builder, indent string, rows [][2]string) {
	width := 0
	for _, row := range rows {
		width = max(width, runewidth.StringWidth(row[0]))
	}
	for _, row := range rows {
		if row[1] == "" {
			fmt.Fprintf(sb, "%s%s\n", indent, row[0])
			continue
		}
		fmt.Fprintf(sb, "%s%s - %s\n", indent, runewidth.FillRight(row[0], width), row[1])
	}
}

// FormatParamDef 格式化单个参数定义
func FormatParamDef(param ParamDef) string {
	parts := []string{param.Name}

	if param.Required {
		parts = append(parts, "required")
	} else {
		parts = append(parts, "optional")
	}

	if param.Default != "" {
		parts = append(parts, fmt.Sprintf("default=%s", param.Default))
	}

	if param.Description != "" {
		parts = append(parts, param.Description)
	}

	return strings.Join(parts, ", ")
}
