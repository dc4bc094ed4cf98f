package translator

import (
	"time"

	"github.com/nerdneilsfield/paradox-mod-translator/pkg/validator"
)

// FileStatus 单个 (语言, 文件) 任务的结果状态
type FileStatus string

const (
	StatusOK       FileStatus = "ok"
	StatusProblems FileStatus = "problems" // 已写出，但有校验问题或 YAML 警告
	StatusEmpty    FileStatus = "empty"    // 正文为空，只写出语言头
	StatusFailed   FileStatus = "failed"
)

// FileResult 单个 (语言, 文件) 任务的结果
type FileResult struct {
	Lang     string
	Source   string // 相对 source_dir 的路径
	Target   string // 输出文件路径
	Chunks   int
	Problems []validator.Problem
	YAMLErr  error // 合并后文档的 YAML 解析警告
	Err      error
	Status   FileStatus
	Duration time.Duration
	Written  bool
}

func (r *FileResult) settle() {
	switch {
	case r.Err != nil:
		r.Status = StatusFailed
	case r.Chunks == 0:
		r.Status = StatusEmpty
	case len(r.Problems) > 0 || r.YAMLErr != nil:
		r.Status = StatusProblems
	default:
		r.Status = StatusOK
	}
}

// RunSummary 一次运行的汇总
type RunSummary struct {
	RunID   string
	Start   time.Time
	End     time.Time
	DryRun  bool
	Results []FileResult
}

// Duration 运行总耗时
func (s *RunSummary) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Count 某个状态的任务数
func (s *RunSummary) Count(status FileStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Failed 失败的任务数
func (s *RunSummary) Failed() int {
	return s.Count(StatusFailed)
}

// HasFailures 是否有任务失败
func (s *RunSummary) HasFailures() bool {
	return s.Failed() > 0
}

// ProblemCount 所有任务的校验问题总数
func (s *RunSummary) ProblemCount() int {
	n := 0
	for _, r := range s.Results {
		n += len(r.Problems)
	}
	return n
}

// ChunkCount 所有任务的分块总数
func (s *RunSummary) ChunkCount() int {
	n := 0
	for _, r := range s.Results {
		n += r.Chunks
	}
	return n
}

// YAMLWarnings 合并后无法解析为 YAML 的文件数
func (s *RunSummary) YAMLWarnings() int {
	n := 0
	for _, r := range s.Results {
		if r.YAMLErr != nil {
			n++
		}
	}
	return n
}
