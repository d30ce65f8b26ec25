package models

import "time"

// @Annotation
type Tag interface {
	label() string
}

// Column 多属性的注解类型
// @Annotation
type Column interface {
	size() int
	columnName() string
	nullable() bool
}

// Plain 没有标记，不是注解类型
type Plain interface {
	value() string
}

// Location 位置
// @Names(annotations="json,Tag")
type Location struct {
	// @Tag(label="cityName")
	City  string `json:"city"`
	Lat   float64
	Lng   float64 `json:"lng,omitempty"` // @Column(size=8)
	_     int
	Extra map[string]any `json:"-"`
}

type base struct {
	ID int64
}

// @Names
type User struct {
	base
	Name, Email string `gorm:"column:user_name"`
	CreatedAt   time.Time
}
