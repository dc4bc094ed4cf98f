package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// OfficialClient 基于 OpenAI 官方 SDK 的客户端，重试由 SDK 自身完成
type OfficialClient struct {
	client openai.Client
	cfg    Config
	log    *zap.Logger
}

// NewOfficialClient 创建官方 SDK 客户端
func NewOfficialClient(cfg Config, log *zap.Logger) *OfficialClient {
	if log == nil {
		log = zap.NewNop()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")+"/"))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	log.Debug("created official openai client",
		zap.String("model", cfg.Name),
		zap.String("model_id", cfg.modelID()),
		zap.String("base_url", cfg.BaseURL),
		zap.String("api_key", maskAuthToken(cfg.APIKey)),
	)

	return &OfficialClient{
		client: openai.NewClient(opts...),
		cfg:    cfg,
		log:    log,
	}
}

// Name 模型名称
func (c *OfficialClient) Name() string {
	return c.cfg.Name
}

// Chat 发送聊天补全请求
func (c *OfficialClient) Chat(ctx context.Context, messages []Message) ([]string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
		Model:    openai.ChatModel(c.cfg.modelID()),
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}
	// 推理模型通常不接受 temperature
	if c.cfg.Temperature > 0 && !c.cfg.IsReasoning {
		params.Temperature = openai.Float(c.cfg.Temperature)
	}
	if c.cfg.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.cfg.MaxOutputTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}

	c.log.Debug("chat completion succeeded",
		zap.String("model", c.cfg.Name),
		zap.Int64("prompt_tokens", completion.Usage.PromptTokens),
		zap.Int64("completion_tokens", completion.Usage.CompletionTokens),
		zap.Int("choices", len(completion.Choices)),
	)

	choices := make([]string, 0, len(completion.Choices))
	for _, choice := range completion.Choices {
		choices = append(choices, Clean(choice.Message.Content, c.cfg.ReasoningTags))
	}
	return choices, nil
}
