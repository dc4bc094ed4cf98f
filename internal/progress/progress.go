// Package progress 运行进度显示
package progress

import (
	"io"
	"os"
	"sync"

	"github.com/pterm/pterm"
)

// Reporter 进度汇报接口，每完成一个 (语言, 文件) 任务调用一次 Increment
type Reporter interface {
	Start(total int, title string)
	Increment(label string)
	Stop()
}

// Noop 不显示任何进度
type Noop struct{}

// Start 实现 Reporter
func (Noop) Start(int, string) {}

// Increment 实现 Reporter
func (Noop) Increment(string) {}

// Stop 实现 Reporter
func (Noop) Stop() {}

// Bar 基于 pterm 进度条的 Reporter
type Bar struct {
	mu      sync.Mutex
	writer  io.Writer
	bar     *pterm.ProgressbarPrinter
	title   string
	total   int
	current int
}

// NewBar 创建进度条，writer 为 nil 时输出到 stderr
func NewBar(writer io.Writer) *Bar {
	if writer == nil {
		writer = os.Stderr
	}
	return &Bar{writer: writer}
}

// Start 启动进度条；total 不大于 0 时不显示
func (b *Bar) Start(total int, title string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.title = title
	b.total = total
	b.current = 0
	if total <= 0 {
		return
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithRemoveWhenDone(false).
		WithWriter(b.writer).
		Start()
	if err != nil {
		// 启动失败时只计数
		return
	}
	b.bar = bar
}

// Increment 前进一步，label 显示为当前任务
func (b *Bar) Increment(label string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current < b.total {
		b.current++
	}
	if b.bar == nil {
		return
	}
	if label != "" {
		b.bar.UpdateTitle(b.title + " " + label)
	}
	b.bar.Increment()
}

// Stop 停止进度条
func (b *Bar) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil {
		return
	}
	_, _ = b.bar.Stop()
	b.bar = nil
}

// Current 已完成的步数
func (b *Bar) Current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Total 总步数
func (b *Bar) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}
