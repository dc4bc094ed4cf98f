package stats

import (
	"time"
)

// History 运行历史文件的结构
type History struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`

	// 总体统计
	TotalRuns     int64         `json:"total_runs"`
	TotalFiles    int64         `json:"total_files"`
	TotalFailed   int64         `json:"total_failed"`
	TotalProblems int64         `json:"total_problems"`
	TotalChunks   int64         `json:"total_chunks"`
	TotalDuration time.Duration `json:"total_duration"`

	// 语言对统计，键为 "english-simp_chinese"
	LanguagePairs map[string]*LanguagePairStats `json:"language_pairs"`

	// 最近的运行记录
	RecentRuns []*RunRecord `json:"recent_runs"`
}

// LanguagePairStats 语言对统计
type LanguagePairStats struct {
	SourceLang   string    `json:"source_lang"`
	TargetLang   string    `json:"target_lang"`
	FileCount    int64     `json:"file_count"`
	ChunkCount   int64     `json:"chunk_count"`
	ProblemCount int64     `json:"problem_count"`
	FailedCount  int64     `json:"failed_count"`
	LastUsed     time.Time `json:"last_used"`
}

// SuccessRate 未失败文件的比例
func (p *LanguagePairStats) SuccessRate() float64 {
	if p.FileCount == 0 {
		return 0
	}
	return float64(p.FileCount-p.FailedCount) / float64(p.FileCount)
}

// RunRecord 一次运行的记录
type RunRecord struct {
	RunID        string        `json:"run_id"`
	Timestamp    time.Time     `json:"timestamp"`
	Model        string        `json:"model"`
	SourceLang   string        `json:"source_lang"`
	TargetLangs  []string      `json:"target_langs"`
	Files        int           `json:"files"`
	Failed       int           `json:"failed"`
	Problems     int           `json:"problems"`
	Chunks       int           `json:"chunks"`
	YAMLWarnings int           `json:"yaml_warnings"`
	Duration     time.Duration `json:"duration"`
	FailedFiles  []string      `json:"failed_files,omitempty"`

	pairs []pairResult
}

// pairResult 单个文件结果在语言对统计中的贡献，不落盘
type pairResult struct {
	lang     string
	chunks   int
	problems int
	failed   bool
}
