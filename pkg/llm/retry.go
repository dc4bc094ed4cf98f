package llm

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// RetryConfig 传输层重试配置
type RetryConfig struct {
	// 最大重试次数，不含首次请求
	MaxRetries int `json:"max_retries"`

	// 初始延迟时间
	InitialDelay time.Duration `json:"initial_delay"`

	// 最大延迟时间
	MaxDelay time.Duration `json:"max_delay"`

	// 退避因子（指数退避）
	BackoffFactor float64 `json:"backoff_factor"`
}

// DefaultRetryConfig 返回默认重试配置
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  1 * time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// ErrorType 错误类型枚举
type ErrorType int

const (
	ErrorTypeNone          ErrorType = iota
	ErrorTypeNetwork                 // 网络瞬时错误
	ErrorTypeRetryableHTTP           // 429
	ErrorTypeClientError             // 其他 4xx
	ErrorTypeServerError             // 5xx
	ErrorTypePermanent               // 永久性错误
)

// Retryable 该类错误是否值得重试
func (t ErrorType) Retryable() bool {
	return t == ErrorTypeNetwork || t == ErrorTypeRetryableHTTP || t == ErrorTypeServerError
}

// ClassifyError 根据 go-openai 的错误类型和网络错误判断错误类别
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeNone
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypePermanent
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode != 0 {
			return classifyStatus(reqErr.HTTPStatusCode)
		}
		if isNetworkError(reqErr.Err) {
			return ErrorTypeNetwork
		}
		return ErrorTypePermanent
	}
	if isNetworkError(err) {
		return ErrorTypeNetwork
	}
	return ErrorTypePermanent
}

func classifyStatus(code int) ErrorType {
	switch {
	case code >= http.StatusInternalServerError:
		return ErrorTypeServerError
	case code == http.StatusTooManyRequests:
		return ErrorTypeRetryableHTTP
	case code >= http.StatusBadRequest:
		return ErrorTypeClientError
	default:
		return ErrorTypeNone
	}
}

// isNetworkError 判断是否为网络错误
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		if isNetworkError(urlErr.Err) {
			return true
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"network is unreachable",
		"no such host",
		"broken pipe",
		"eof",
	} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// calculateDelay 指数退避，不超过 MaxDelay
func (c RetryConfig) calculateDelay(attempt int) time.Duration {
	factor := c.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	delay := time.Duration(float64(c.InitialDelay) * math.Pow(factor, float64(attempt)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// withRetry 执行 fn，遇到可重试错误时按退避策略重试
func withRetry(ctx context.Context, cfg RetryConfig, onRetry func(attempt int, err error, delay time.Duration), fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !ClassifyError(lastErr).Retryable() || attempt == cfg.MaxRetries {
			break
		}

		delay := cfg.calculateDelay(attempt)
		if onRetry != nil {
			onRetry(attempt+1, lastErr, delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}
