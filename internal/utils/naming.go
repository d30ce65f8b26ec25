package utils

import (
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm/schema"
)

// snakeNamer 与 GORM 默认的列名规则一致
var snakeNamer = schema.NamingStrategy{}

// ToSnakeCase 将驼峰命名转换为蛇形(下划线)命名，如 HTTPServer -> http_server
func ToSnakeCase(name string) string {
	return snakeNamer.ColumnName("", name)
}

// LowerFirst 只将首字母转换为小写，其余字符保持不变
// 例如 User -> user, HTTPServer -> hTTPServer
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
