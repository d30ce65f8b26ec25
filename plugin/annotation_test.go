package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple annotation", "// @Names", []string{"Names"}},
		{"annotation with params", "// @Names(annotations=`json,Tag`)", []string{"Names"}},
		{"multiple annotations", "// @Names @Tag", []string{"Names", "Tag"}},
		{"multiline annotations", "// @Names(output=`x.go`)\n// @Tag(label=`city`)", []string{"Names", "Tag"}},
		{"block comment", "/* @Annotation */", []string{"Annotation"}},
		{"no annotation", "// This is a comment", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, ann := range ParseAnnotations(tt.input) {
				names = append(names, ann.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestAnnotationParams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "反引号格式",
			input: "// @Names(annotations=`json,Tag`, output=`x.go`)",
			want:  map[string]string{"annotations": "json,Tag", "output": "x.go"},
		},
		{
			name:  "双引号格式",
			input: `// @Tag(label="cityName")`,
			want:  map[string]string{"label": "cityName"},
		},
		{
			name:  "普通格式无空格",
			input: "// @Names(annotations=json|Tag,output=x.go)",
			want:  map[string]string{"annotations": "json|Tag", "output": "x.go"},
		},
		{
			name:  "参数名大小写不敏感",
			input: "// @Tag(Label=`city`)",
			want:  map[string]string{"label": "city"},
		},
		{
			name:  "位置参数（双引号）",
			input: `// @Tag("city")`,
			want:  map[string]string{"value": "city"},
		},
		{
			name:  "位置参数（裸值）",
			input: "// @Tag(city)",
			want:  map[string]string{"value": "city"},
		},
		{
			name:  "空括号",
			input: "// @Tag()",
			want:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			annotations := ParseAnnotations(tt.input)
			require.Len(t, annotations, 1)
			assert.Equal(t, tt.want, annotations[0].Params)
		})
	}
}

func TestAnnotationHelpers(t *testing.T) {
	annotations := ParseAnnotations("// @Names(output=`x.go`) @Tag(label=``) @Tag(label=`second`)")
	require.Len(t, annotations, 3)

	assert.True(t, HasAnnotation(annotations, "Tag"))
	assert.False(t, HasAnnotation(annotations, "Column"))
	assert.Len(t, FilterByNames(annotations, "Tag"), 2)
	assert.Len(t, FilterByNames(annotations), 3)

	tag := GetAnnotation(annotations, "Tag")
	require.NotNil(t, tag)
	v, ok := tag.LookupParam("LABEL")
	assert.True(t, ok, "空值参数也应视为存在")
	assert.Empty(t, v)

	names := GetAnnotation(annotations, "Names")
	assert.Equal(t, "x.go", names.GetParam("output"))
	_, ok = names.LookupParam("annotations")
	assert.False(t, ok)
}
