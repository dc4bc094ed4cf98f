// Package llm 封装远程大模型的聊天补全调用：发送消息列表，返回候选文本列表
package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Role 消息角色
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// API 类型
const (
	APITypeOpenAI         = "openai"
	APITypeOpenAIOfficial = "openai-official"
	APITypeRaw            = "raw"
)

// Message 一条聊天消息
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage 构造系统消息
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage 构造用户消息
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Client 远程模型客户端
type Client interface {
	// Chat 发送有序消息列表，返回全部候选补全；调用方使用第一个候选
	Chat(ctx context.Context, messages []Message) ([]string, error)
	// Name 模型名称，用于日志
	Name() string
}

// Config 创建客户端所需的模型参数
type Config struct {
	Name            string
	ModelID         string
	APIType         string
	BaseURL         string
	APIKey          string
	Temperature     float64
	MaxOutputTokens int
	IsReasoning     bool
	ReasoningTags   []string
	MaxRetries      int
	Timeout         time.Duration
}

// modelID 请求中使用的模型 ID，未设置时退回模型名称
func (c Config) modelID() string {
	if c.ModelID != "" {
		return c.ModelID
	}
	return c.Name
}

// New 按 APIType 创建客户端
func New(cfg Config, log *zap.Logger) (Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 300 * time.Second
	}

	switch cfg.APIType {
	case APITypeOpenAI, "":
		return NewOpenAIClient(cfg, log), nil
	case APITypeOpenAIOfficial:
		return NewOfficialClient(cfg, log), nil
	case APITypeRaw:
		return NewRawClient(), nil
	default:
		return nil, fmt.Errorf("unsupported api_type %q for model %s", cfg.APIType, cfg.Name)
	}
}

// maskAuthToken 遮蔽认证令牌，只显示前4位和后4位
func maskAuthToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
