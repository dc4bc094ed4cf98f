package translator

import (
	"context"
)

// Batcher 固定大小的许可池，限制同时进行的远程调用数量。
// 同一个 Batcher 在一次运行的所有文件和目标语言之间共享
type Batcher struct {
	permits chan struct{}
}

// NewBatcher 创建许可池，size 小于 1 时按 1 处理
func NewBatcher(size int) *Batcher {
	if size < 1 {
		size = 1
	}
	return &Batcher{permits: make(chan struct{}, size)}
}

// Size 许可总数
func (b *Batcher) Size() int {
	return cap(b.permits)
}

// InFlight 当前被占用的许可数
func (b *Batcher) InFlight() int {
	return len(b.permits)
}

// Acquire 获取一个许可，没有空闲许可时阻塞直到 ctx 结束
func (b *Batcher) Acquire(ctx context.Context) error {
	select {
	case b.permits <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release 归还许可
func (b *Batcher) Release() {
	<-b.permits
}

type outcome[R any] struct {
	index  int
	result R
	err    error
}

// Run 为每个 item 获取许可后并发执行 fn，结果按输入顺序返回。
// 第一个失败会立即返回该错误：不再派发新任务，已经开始的任务不会被取消，其结果被丢弃
func Run[T, R any](ctx context.Context, b *Batcher, items []T, fn func(ctx context.Context, index int, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	outcomes := make(chan outcome[R], len(items))
	stop := make(chan struct{})
	dispatched := make(chan int, 1)

	go func() {
		n := 0
		defer func() { dispatched <- n }()

		for i, item := range items {
			select {
			case <-stop:
				return
			default:
			}

			if err := b.Acquire(ctx); err != nil {
				outcomes <- outcome[R]{index: i, err: err}
				n++
				return
			}
			select {
			case <-stop:
				b.Release()
				return
			default:
			}

			n++
			go func(i int, item T) {
				result, err := fn(ctx, i, item)
				b.Release()
				outcomes <- outcome[R]{index: i, result: result, err: err}
			}(i, item)
		}
	}()

	received, total := 0, -1
	for total < 0 || received < total {
		select {
		case o := <-outcomes:
			received++
			if o.err != nil {
				close(stop)
				return nil, o.err
			}
			results[o.index] = o.result
		case total = <-dispatched:
		}
	}
	return results, nil
}
