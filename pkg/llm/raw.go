package llm

import "context"

// RawClient 不调用远程服务，直接返回最后一条用户消息，用于演练和测试
type RawClient struct{}

// NewRawClient 创建原始文本客户端
func NewRawClient() *RawClient {
	return &RawClient{}
}

// Chat 返回最后一条用户消息作为唯一候选
func (c *RawClient) Chat(ctx context.Context, messages []Message) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return []string{messages[i].Content}, nil
		}
	}
	return []string{""}, nil
}

// Name 模型名称
func (c *RawClient) Name() string {
	return "raw"
}
