package test

import (
	"context"

	"github.com/nerdneilsfield/paradox-mod-translator/pkg/llm"
	"github.com/stretchr/testify/mock"
)

// MockLLMClient 基于 testify/mock 的 llm.Client
type MockLLMClient struct {
	mock.Mock
}

var _ llm.Client = (*MockLLMClient)(nil)

// Chat 执行聊天请求
func (m *MockLLMClient) Chat(ctx context.Context, messages []llm.Message) ([]string, error) {
	args := m.Called(ctx, messages)
	choices, _ := args.Get(0).([]string)
	return choices, args.Error(1)
}

// Name 返回模型名称
func (m *MockLLMClient) Name() string {
	args := m.Called()
	return args.String(0)
}
