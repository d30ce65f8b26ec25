package namesgen

import (
	"testing"

	"github.com/donutnomad/gonames/internal/structparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagInstance(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		tag    string
		want   string
		wantOK bool
	}{
		{"json 名称", "json", `json:"city,omitempty"`, "city", true},
		{"json 忽略", "json", `json:"-"`, "", false},
		{"json 名称为 -", "json", `json:"-,"`, "-", true},
		{"json 只有选项", "json", `json:",omitempty"`, "", false},
		{"yaml 名称", "yaml", `json:"a" yaml:"town"`, "town", true},
		{"gorm column", "gorm", `gorm:"type:varchar(20);column:city_name;not null"`, "city_name", true},
		{"gorm column 大小写不敏感", "gorm", `gorm:"COLUMN: city_name"`, "city_name", true},
		{"gorm 没有 column", "gorm", `gorm:"type:text"`, "", false},
		{"gorm 只有 primaryKey", "gorm", `gorm:"primaryKey"`, "", false},
		{"原始标签", "label", `label:"城市"`, "城市", true},
		{"原始标签为空", "label", `label:""`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := LookupAnnotationType(tt.key, nil)
			field := fieldWith("City", tt.tag, "")

			inst, ok := field.Lookup(typ)
			require.True(t, ok)

			accessor, ok := SelectAccessor(typ.Accessors)
			require.True(t, ok)

			got, ok, err := inst.Invoke(accessor)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagInstance_NonStringAccessor(t *testing.T) {
	typ := LookupAnnotationType("json", nil)
	inst, ok := fieldWith("City", `json:"city,omitempty"`, "").Lookup(typ)
	require.True(t, ok)

	_, _, err := inst.Invoke(Accessor{Name: "omitempty"})
	assert.Error(t, err)
}

func TestLookup_MissingTag(t *testing.T) {
	_, ok := fieldWith("City", `json:"city"`, "").Lookup(LookupAnnotationType("yaml", nil))
	assert.False(t, ok)

	_, ok = (&Declaration{Name: "City"}).Lookup(LookupAnnotationType("json", nil))
	assert.False(t, ok)
}

func TestLookupAnnotationType(t *testing.T) {
	declared := []*AnnotationType{
		{Name: "json", Kind: KindComment, Accessors: []Accessor{{Name: "label", ReturnsString: true}}},
		tagType,
	}

	assert.Equal(t, KindComment, LookupAnnotationType("json", declared).Kind, "包内声明优先于内置标签")
	assert.Same(t, tagType, LookupAnnotationType("Tag", declared))

	builtin := LookupAnnotationType("json", nil)
	assert.Equal(t, KindTag, builtin.Kind)
	assert.Equal(t, FormatComma, builtin.Format)
	assert.Equal(t, Accessor{Name: "name", ReturnsString: true}, builtin.Accessors[0])

	gorm := LookupAnnotationType("gorm", nil)
	assert.Equal(t, FormatKeyValue, gorm.Format)

	raw := LookupAnnotationType("Unknown", nil)
	assert.Equal(t, KindTag, raw.Kind)
	assert.Equal(t, FormatRaw, raw.Format)
	assert.Equal(t, "Unknown", raw.TagKey)
	assert.Equal(t, []Accessor{{Name: "value", ReturnsString: true}}, raw.Accessors)

	candidates := ResolveCandidates([]string{"Tag", "json"}, declared)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Tag", candidates[0].Name)
	assert.Equal(t, "json", candidates[1].Name)
}

func TestFromInterface(t *testing.T) {
	typ := FromInterface(structparse.InterfaceInfo{
		Name: "Column",
		Methods: []structparse.MethodInfo{
			{Name: "size", Results: []string{"int"}},
			{Name: "columnName", Results: []string{"string"}},
			{Name: "pair", Results: []string{"string", "error"}},
		},
	})

	assert.Equal(t, "Column", typ.Name)
	assert.Equal(t, KindComment, typ.Kind)
	assert.Equal(t, []Accessor{
		{Name: "size"},
		{Name: "columnName", ReturnsString: true},
		{Name: "pair"},
	}, typ.Accessors)
}

func TestParseCandidateList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"json", []string{"json"}},
		{"json,Tag", []string{"json", "Tag"}},
		{"json|Tag", []string{"json", "Tag"}},
		{"[json, Tag]", []string{"json", "Tag"}},
		{` "json" , 'Tag',,json `, []string{"json", "Tag"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCandidateList(tt.input))
		})
	}
}
