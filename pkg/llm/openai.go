package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient 基于 go-openai 的 OpenAI 兼容接口客户端
type OpenAIClient struct {
	client *openai.Client
	cfg    Config
	retry  RetryConfig
	log    *zap.Logger
}

// NewOpenAIClient 创建客户端；BaseURL 为空时使用 OpenAI 官方地址
func NewOpenAIClient(cfg Config, log *zap.Logger) *OpenAIClient {
	if log == nil {
		log = zap.NewNop()
	}

	goOpenaiConfig := openai.DefaultConfig(cfg.APIKey)
	goOpenaiConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	if cfg.BaseURL != "" {
		// go-openai 的路径以斜杠开头，避免出现双斜杠
		goOpenaiConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	retry := DefaultRetryConfig()
	if cfg.MaxRetries >= 0 {
		retry.MaxRetries = cfg.MaxRetries
	}

	log.Debug("created openai client",
		zap.String("model", cfg.Name),
		zap.String("model_id", cfg.modelID()),
		zap.String("base_url", goOpenaiConfig.BaseURL),
		zap.String("api_key", maskAuthToken(cfg.APIKey)),
		zap.Duration("timeout", cfg.Timeout),
	)

	return &OpenAIClient{
		client: openai.NewClientWithConfig(goOpenaiConfig),
		cfg:    cfg,
		retry:  retry,
		log:    log,
	}
}

// SetRetryConfig 替换重试配置
func (c *OpenAIClient) SetRetryConfig(retry RetryConfig) {
	c.retry = retry
}

// Name 模型名称
func (c *OpenAIClient) Name() string {
	return c.cfg.Name
}

// Chat 发送聊天补全请求，网络错误、429 和 5xx 会按退避策略重试
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) ([]string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.cfg.modelID(),
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: float32(c.cfg.Temperature),
		MaxTokens:   c.cfg.MaxOutputTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	if c.cfg.IsReasoning {
		req.Temperature = 0
	}

	start := time.Now()
	var resp openai.ChatCompletionResponse
	err := withRetry(ctx, c.retry, func(attempt int, err error, delay time.Duration) {
		c.log.Warn("chat completion failed, retrying",
			zap.String("model", c.cfg.Name),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}, func() error {
		var err error
		resp, err = c.client.CreateChatCompletion(ctx, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}

	c.log.Debug("chat completion succeeded",
		zap.String("model", c.cfg.Name),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int("choices", len(resp.Choices)),
		zap.Duration("elapsed", time.Since(start)),
	)

	choices := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		choices = append(choices, Clean(choice.Message.Content, c.cfg.ReasoningTags))
	}
	return choices, nil
}
