package namesgen

import (
	"runtime"
	"sync"
)

// Job 一个结构体的生成任务
type Job struct {
	Decl       *Declaration
	Candidates []*AnnotationType
}

// Outcome 一个任务的处理结果
type Outcome struct {
	Decl     *Declaration
	Artifact *Artifact
	Warnings []string
	Err      error
}

// Pipeline 结构体名称常量的生成流水线
type Pipeline struct {
	sink    Sink
	workers int
}

// PipelineOption 配置 Pipeline
type PipelineOption func(*Pipeline)

// WithPipelineWorkers 设置并行构建的协程数
func WithPipelineWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

func NewPipeline(sink Sink, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		sink:    sink,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build 解析名称并渲染代码，不产生副作用
func (p *Pipeline) Build(job Job) Outcome {
	classLevelName := ResolveDeclaration(job.Decl, job.Candidates)
	fieldPairs := ScanMembers(job.Decl, job.Candidates)

	artifact, warnings, err := Render(job.Decl, classLevelName, fieldPairs)
	return Outcome{
		Decl:     job.Decl,
		Artifact: artifact,
		Warnings: warnings,
		Err:      err,
	}
}

// Run 并行构建所有任务，再按输入顺序依次输出
// 单个任务的失败记录在对应的 Outcome 中，不影响其他任务
func (p *Pipeline) Run(jobs []Job) []Outcome {
	outcomes := make([]Outcome, len(jobs))

	indexCh := make(chan int, len(jobs))
	for i := range jobs {
		indexCh <- i
	}
	close(indexCh)

	var wg sync.WaitGroup
	for range min(p.workers, len(jobs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexCh {
				outcomes[i] = p.Build(jobs[i])
			}
		}()
	}
	wg.Wait()

	for i := range outcomes {
		if outcomes[i].Err != nil || p.sink == nil {
			continue
		}
		if err := p.sink.Emit(outcomes[i].Decl, outcomes[i].Artifact.Source); err != nil {
			outcomes[i].Err = err
		}
	}

	return outcomes
}
