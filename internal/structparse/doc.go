// Package structparse 从 Go 源码中静态提取结构体与注解类型的元信息。
//
// 本包只依赖 go/parser，不需要编译目标包，主要提供：
//
//  1. 结构体解析 - 按声明顺序提取具名字段、字段标签以及字段注释中的注解
//  2. 注解类型解析 - 收集包内标记了 @Annotation 的接口，方法即注解的属性访问器
//  3. 导入路径推断 - 根据 go.mod 推断目录对应的包导入路径
//
// # 基本用法
//
//	info, err := structparse.ParseStruct("models/user.go", "User")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("结构体: %s (%s)\n", info.Name, info.QualifiedName())
//	for _, field := range info.Fields {
//	    fmt.Printf("  字段: %s %s %s\n", field.Name, field.Type, field.Tag)
//	}
//
// # 注解类型
//
// 注解类型以接口的形式声明在同一个包中：
//
//	// @Annotation
//	type Tag interface {
//	    label() string
//	}
//
// 字段上的 // @Tag(label="cityName") 即为该注解类型的实例。
//
// # 缓存
//
// ParseContext 会缓存模块根目录和注解类型的解析结果，同一次生成过程中
// 应复用同一个 ParseContext。嵌入字段和匿名字段不会被展开。
package structparse
