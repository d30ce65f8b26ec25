package example

import "time"

// Tag 自定义的名称注解，方法即注解的参数
// @Annotation
type Tag interface {
	label() string
}

// Column 多个参数的注解，名称包含 name 的 columnName 会被选中
// @Annotation
type Column interface {
	size() int
	columnName() string
}

// 示例 1: 不指定候选注解，常量值就是字段名
// @Names
type Location struct {
	City       string
	PostalCode string
}

// 示例 2: json 标签优先，其次是 @Tag
// @Names(annotations="json,Tag")
type User struct {
	Name string `json:"name"`
	Age  int    `json:"age,omitempty"`
	// @Tag(label="home")
	Location Location
	// @Tag(label="created")
	CreatedAt time.Time `json:"-"`
}

// 示例 3: gorm 的 column，输出到独立文件
// @Names(annotations="Column|gorm", output="$TYPE_names.go")
// @Column(columnName="orders")
type Order struct {
	ID     int64  `gorm:"primaryKey;column:order_id"`
	UserID int64  `gorm:"column:user_id"`
	Remark string // @Column(size=255, columnName="memo")
}
