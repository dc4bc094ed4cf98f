package stats

import (
	"path/filepath"

	"github.com/nerdneilsfield/paradox-mod-translator/internal/translator"
)

// NewRunRecord 由运行汇总生成运行记录
func NewRunRecord(summary *translator.RunSummary, model, sourceLang string) *RunRecord {
	record := &RunRecord{
		RunID:        summary.RunID,
		Timestamp:    summary.Start,
		Model:        model,
		SourceLang:   sourceLang,
		Files:        len(summary.Results),
		Failed:       summary.Failed(),
		Problems:     summary.ProblemCount(),
		Chunks:       summary.ChunkCount(),
		YAMLWarnings: summary.YAMLWarnings(),
		Duration:     summary.Duration(),
	}

	seen := make(map[string]bool)
	for _, r := range summary.Results {
		if !seen[r.Lang] {
			seen[r.Lang] = true
			record.TargetLangs = append(record.TargetLangs, r.Lang)
		}
		failed := r.Status == translator.StatusFailed
		if failed {
			record.FailedFiles = append(record.FailedFiles, filepath.ToSlash(filepath.Join(r.Lang, r.Source)))
		}
		record.pairs = append(record.pairs, pairResult{
			lang:     r.Lang,
			chunks:   r.Chunks,
			problems: len(r.Problems),
			failed:   failed,
		})
	}
	return record
}
