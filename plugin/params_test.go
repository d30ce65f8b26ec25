package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParamsFromStruct(t *testing.T) {
	type TestParams struct {
		Annotations string `param:"name=annotations,required=true,default=,description=候选注解类型"`
		Output      string `param:"name=output,required=false,default=$FILE_names.go,description=输出文件"`
		Note        string `param:"name=note,required=false,default=,description=a\\, b"`
		Ignored     string // 没有 tag
	}

	for _, v := range []any{TestParams{}, &TestParams{}} {
		params := ParseParamsFromStruct(v)
		require.Len(t, params, 3)

		assert.Equal(t, ParamDef{Name: "annotations", Required: true, Description: "候选注解类型"}, params[0])
		assert.Equal(t, "$FILE_names.go", params[1].Default)
		assert.False(t, params[1].Required)
		assert.Equal(t, "a, b", params[2].Description, "转义的逗号属于值的一部分")
	}

	assert.Empty(t, ParseParamsFromStruct(struct{}{}))
	assert.Nil(t, ParseParamsFromStruct(nil))
	assert.Nil(t, ParseParamsFromStruct("not a struct"))
}

func TestParseAnnotationParams(t *testing.T) {
	type TestParams struct {
		Mode    string  `param:"name=mode,required=false,default=none,description=模式"`
		Count   int     `param:"name=count,required=false,default=10,description=数量"`
		Limit   uint    `param:"name=limit,required=false,default=,description=上限"`
		Enable  bool    `param:"name=enable,required=false,default=false,description=启用"`
		Ratio   float64 `param:"name=ratio,required=false,default=0.5,description=比例"`
		private string  `param:"name=private"`
	}

	tests := []struct {
		name    string
		comment string
		want    TestParams
	}{
		{
			name:    "反引号格式",
			comment: "// @Test(mode=`v1`)",
			want:    TestParams{Mode: "v1", Count: 10, Ratio: 0.5},
		},
		{
			name:    "多个参数",
			comment: "// @Test(mode=v2, count=`20`, limit=3, enable=1, ratio=0.25)",
			want:    TestParams{Mode: "v2", Count: 20, Limit: 3, Enable: true, Ratio: 0.25},
		},
		{
			name:    "空值使用默认值",
			comment: "// @Test(mode=``)",
			want:    TestParams{Mode: "none", Count: 10, Ratio: 0.5},
		},
		{
			name:    "无参数",
			comment: "// @Test",
			want:    TestParams{Mode: "none", Count: 10, Ratio: 0.5},
		},
	}

	paramDefs := ParseParamsFromStruct(TestParams{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			annotations := ParseAnnotations(tt.comment)
			require.Len(t, annotations, 1)

			var params TestParams
			require.NoError(t, ParseAnnotationParams(annotations[0], &params, paramDefs))
			assert.Equal(t, tt.want, params)
		})
	}
}

func TestParseAnnotationParams_Errors(t *testing.T) {
	type TestParams struct {
		Name  string `param:"name=name,required=true,description=名称"`
		Count int    `param:"name=count,required=false,default=1,description=数量"`
	}
	paramDefs := ParseParamsFromStruct(TestParams{})

	var params TestParams
	err := ParseAnnotationParams(ParseAnnotations("// @Test(count=2)")[0], &params, paramDefs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")

	err = ParseAnnotationParams(ParseAnnotations("// @Test(name=x, count=abc)")[0], &params, paramDefs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count")
}

func TestBaseGenerator_NewParams(t *testing.T) {
	type TestParams struct {
		Mode string `param:"name=mode,required=false,default=none,description=模式"`
	}

	gen := NewBaseGeneratorWithParamsStruct("test", []string{"Test"}, []TargetKind{TargetStruct}, TestParams{})
	assert.Equal(t, 100, gen.Priority())
	assert.Equal(t, 5, gen.SetPriority(5).Priority())

	p1, ok := gen.NewParams().(*TestParams)
	require.True(t, ok)
	p2, ok := gen.NewParams().(*TestParams)
	require.True(t, ok)
	assert.NotSame(t, p1, p2, "每次应返回新的实例")

	require.NoError(t, ParseAnnotationParams(ParseAnnotations("// @Test(mode=`v1`)")[0], p1, gen.ParamDefs()))
	assert.Equal(t, "v1", p1.Mode)
	assert.Empty(t, p2.Mode)

	assert.Nil(t, NewBaseGenerator("plain", []string{"Plain"}, nil).NewParams())
}
