package namesgen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/donutnomad/gonames/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_EmitsInInputOrder(t *testing.T) {
	var jobs []Job
	for i := range 50 {
		jobs = append(jobs, Job{Decl: newDecl(fmt.Sprintf("Model%02d", i), "models", "ID", "Name")})
	}

	var emitted []string
	sink := SinkFunc(func(decl *Declaration, text []byte) error {
		emitted = append(emitted, decl.Name)
		return nil
	})

	outcomes := NewPipeline(sink, WithPipelineWorkers(4)).Run(jobs)
	require.Len(t, outcomes, len(jobs))

	for i, outcome := range outcomes {
		require.NoError(t, outcome.Err)
		assert.Same(t, jobs[i].Decl, outcome.Decl)
		assert.Equal(t, jobs[i].Decl.Name, emitted[i])
	}
}

func TestPipeline_SinkFailureIsIsolated(t *testing.T) {
	jobs := []Job{
		{Decl: newDecl("A", "models", "X")},
		{Decl: newDecl("B", "models", "X")},
		{Decl: newDecl("C", "models", "X")},
	}

	var emitted []string
	sink := SinkFunc(func(decl *Declaration, text []byte) error {
		if decl.Name == "B" {
			return errors.New("disk full")
		}
		emitted = append(emitted, decl.Name)
		return nil
	})

	outcomes := NewPipeline(sink).Run(jobs)
	assert.NoError(t, outcomes[0].Err)
	assert.EqualError(t, outcomes[1].Err, "disk full")
	assert.NoError(t, outcomes[2].Err)
	assert.Equal(t, []string{"A", "C"}, emitted)
}

func TestPipeline_RunWithoutJobs(t *testing.T) {
	assert.Empty(t, NewPipeline(nil).Run(nil))
}

func TestResultSink(t *testing.T) {
	result := plugin.NewGenerateResult()
	sink := &ResultSink{
		Result: result,
		PathFor: func(decl *Declaration) string {
			if decl.Name == "Orphan" {
				return ""
			}
			return "/out/models_names.go"
		},
	}

	jobs := []Job{
		{Decl: newDecl("Location", "models", "City")},
		{Decl: newDecl("User", "models", "Name")},
		{Decl: newDecl("NoPkg", "", "Name")},
		{Decl: newDecl("Orphan", "models", "Name")},
	}
	outcomes := NewPipeline(sink).Run(jobs)

	assert.NoError(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)

	require.Error(t, outcomes[2].Err, "空包名的代码无法合并")
	assert.Contains(t, outcomes[2].Err.Error(), "NoPkg")
	assert.Len(t, outcomes[2].Warnings, 1)

	require.Error(t, outcomes[3].Err)
	assert.Contains(t, outcomes[3].Err.Error(), "example.com/models.Orphan")

	require.Len(t, result.Definitions, 1)
	assert.Equal(t, []string{"example.com/models.Location", "example.com/models.User"}, result.Sources["/out/models_names.go"])
	output := string(result.Definitions["/out/models_names.go"].Bytes())
	assert.Contains(t, output, "var LocationNames = struct")
	assert.Contains(t, output, "var UserNames = struct")
}
