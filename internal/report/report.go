// Package report 输出运行汇总表和逐条的格式问题
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/translator"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/validator"
)

// Printer 报告输出器
type Printer struct {
	out   io.Writer
	title *color.Color
	warn  *color.Color
	fail  *color.Color
	ok    *color.Color
	dim   *color.Color
}

// New 创建输出器；noColor 为 true 时不输出颜色控制符
func New(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:   out,
		title: color.New(color.FgCyan, color.Bold),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed, color.Bold),
		ok:    color.New(color.FgGreen),
		dim:   color.New(color.FgHiBlack),
	}
	if noColor {
		for _, c := range []*color.Color{p.title, p.warn, p.fail, p.ok, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

// Problems 打印某个文件的全部格式问题，每个问题一行
func (p *Printer) Problems(file string, problems []validator.Problem) {
	for _, problem := range problems {
		p.warn.Fprint(p.out, "[WARN] ")
		fmt.Fprintf(p.out, "%s: %s\n", file, problem)
	}
}

// Failure 打印一个失败的文件
func (p *Printer) Failure(file string, err error) {
	p.fail.Fprint(p.out, "[FAIL] ")
	fmt.Fprintf(p.out, "%s: %v\n", file, err)
}

// Run 打印一次运行的逐条问题、失败和汇总表
func (p *Printer) Run(summary *translator.RunSummary) {
	for _, r := range summary.Results {
		label := r.Lang + "/" + r.Source
		p.Problems(label, r.Problems)
		if r.YAMLErr != nil {
			p.warn.Fprint(p.out, "[WARN] ")
			fmt.Fprintf(p.out, "%s: merged document is not valid YAML: %v\n", label, r.YAMLErr)
		}
		if r.Err != nil {
			p.Failure(label, r.Err)
		}
	}
	p.Summary(summary)
}

// Summary 打印汇总表
func (p *Printer) Summary(summary *translator.RunSummary) {
	fmt.Fprintln(p.out)
	p.title.Fprintf(p.out, "Run %s", summary.RunID)
	if summary.DryRun {
		p.dim.Fprint(p.out, " (dry run)")
	}
	fmt.Fprintln(p.out)

	tw := table.NewWriter()
	tw.SetOutputMirror(p.out)
	tw.AppendHeader(table.Row{"Lang", "File", "Chunks", "Problems", "Status", "Time"})
	for _, r := range summary.Results {
		tw.AppendRow(table.Row{r.Lang, r.Source, r.Chunks, len(r.Problems), string(r.Status), formatDuration(r.Duration)})
	}
	tw.AppendFooter(table.Row{
		"",
		fmt.Sprintf("%d files, %d failed", len(summary.Results), summary.Failed()),
		summary.ChunkCount(),
		summary.ProblemCount(),
		fmt.Sprintf("%d yaml warnings", summary.YAMLWarnings()),
		formatDuration(summary.Duration()),
	})
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Footer = text.FormatDefault
	tw.Render()

	switch {
	case summary.HasFailures():
		p.fail.Fprintf(p.out, "%d of %d files failed\n", summary.Failed(), len(summary.Results))
	case summary.ProblemCount() > 0:
		p.warn.Fprintf(p.out, "finished with %d problems\n", summary.ProblemCount())
	default:
		p.ok.Fprintln(p.out, "all files translated")
	}
}

// formatDuration 格式化持续时间
func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
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
