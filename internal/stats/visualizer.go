package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Visualizer 历史数据的终端展示
type Visualizer struct {
	db  *Database
	out io.Writer

	title   *color.Color
	section *color.Color
	label   *color.Color
	value   *color.Color
	fail    *color.Color
}

// NewVisualizer 创建可视化器
func NewVisualizer(db *Database, out io.Writer, noColor bool) *Visualizer {
	v := &Visualizer{
		db:      db,
		out:     out,
		title:   color.New(color.FgCyan, color.Bold),
		section: color.New(color.FgYellow, color.Bold),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite, color.Bold),
		fail:    color.New(color.FgRed),
	}
	if noColor {
		for _, c := range []*color.Color{v.title, v.section, v.label, v.value, v.fail} {
			c.DisableColor()
		}
	}
	return v
}

// ShowOverview 显示总览
func (v *Visualizer) ShowOverview() {
	h := v.db.GetHistory()

	v.printTitle("📊 Translation History Overview")
	fmt.Fprintln(v.out)
	v.printSection("🎯 Overall Statistics", [][]string{
		{"Total Runs", formatNumber(h.TotalRuns)},
		{"Total Files", formatNumber(h.TotalFiles)},
		{"Failed Files", formatNumber(h.TotalFailed)},
		{"Format Problems", formatNumber(h.TotalProblems)},
		{"Total Chunks", formatNumber(h.TotalChunks)},
		{"Total Duration", formatDuration(h.TotalDuration)},
		{"History Created", formatTime(h.CreatedAt)},
		{"Last Updated", formatTime(h.LastUpdated)},
	})
}

// ShowLanguagePairs 显示语言对统计
func (v *Visualizer) ShowLanguagePairs() {
	h := v.db.GetHistory()

	v.printTitle("🌍 Language Pair Statistics")
	if len(h.LanguagePairs) == 0 {
		fmt.Fprintln(v.out, "No language pair data available.")
		return
	}

	// 按文件数量排序
	pairs := make([]*LanguagePairStats, 0, len(h.LanguagePairs))
	for _, pair := range h.LanguagePairs {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].FileCount != pairs[j].FileCount {
			return pairs[i].FileCount > pairs[j].FileCount
		}
		return pairs[i].TargetLang < pairs[j].TargetLang
	})

	for _, pair := range pairs {
		fmt.Fprintln(v.out)
		v.printSection(fmt.Sprintf("🔄 %s → %s", pair.SourceLang, pair.TargetLang), [][]string{
			{"Files", formatNumber(pair.FileCount)},
			{"Chunks", formatNumber(pair.ChunkCount)},
			{"Problems", formatNumber(pair.ProblemCount)},
			{"Failed", formatNumber(pair.FailedCount)},
			{"Success Rate", fmt.Sprintf("%.1f%%", pair.SuccessRate()*100)},
			{"Last Used", formatTime(pair.LastUsed)},
		})
	}
}

// ShowRecentRuns 显示最近的运行
func (v *Visualizer) ShowRecentRuns(limit int) {
	records := v.db.GetRecentRuns(limit)

	v.printTitle(fmt.Sprintf("🕒 Recent Runs (Last %d)", len(records)))
	if len(records) == 0 {
		fmt.Fprintln(v.out, "No recent runs found.")
		return
	}

	for _, record := range records {
		fmt.Fprintln(v.out)
		status := "✅"
		if record.Failed > 0 {
			status = "❌"
		}
		v.printSection(fmt.Sprintf("%s %s", status, record.RunID), [][]string{
			{"Timestamp", formatTime(record.Timestamp)},
			{"Model", record.Model},
			{"Language", fmt.Sprintf("%s → %s", record.SourceLang, strings.Join(record.TargetLangs, ", "))},
			{"Files", fmt.Sprintf("%d (%d failed)", record.Files, record.Failed)},
			{"Chunks", strconv.Itoa(record.Chunks)},
			{"Problems", strconv.Itoa(record.Problems)},
			{"YAML Warnings", strconv.Itoa(record.YAMLWarnings)},
			{"Duration", formatDuration(record.Duration)},
		})
		for _, f := range record.FailedFiles {
			v.fail.Fprintf(v.out, "  ❌ Failed: %s\n", f)
		}
	}
}

func (v *Visualizer) printTitle(title string) {
	v.title.Fprintln(v.out, title)
	v.title.Fprintln(v.out, strings.Repeat("=", 50))
}

// printSection 打印一个统计部分
func (v *Visualizer) printSection(title string, data [][]string) {
	v.section.Fprintf(v.out, "%s\n", title)

	maxLabelLen := 0
	for _, row := range data {
		if len(row[0]) > maxLabelLen {
			maxLabelLen = len(row[0])
		}
	}

	for _, row := range data {
		v.label.Fprintf(v.out, "  %-*s: ", maxLabelLen, row[0])
		v.value.Fprintln(v.out, row[1])
	}
}

// formatNumber 格式化数字（添加千位分隔符）
func formatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(char)
	}
	return result.String()
}

// formatDuration 格式化持续时间
func formatDuration(d time.Duration) string {
	switch {
	case d == 0:
		return "0s"
	case d < time.Second:
		return fmt.Sprintf("%.0fms", float64(d.Nanoseconds())/1e6)
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}

// formatTime 格式化时间
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format("2006-01-02 15:04")
}
