package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// RecordedMessage 请求中的一条消息
type RecordedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RecordedRequest 服务器收到的一次聊天补全请求
type RecordedRequest struct {
	Model         string
	Messages      []RecordedMessage
	Authorization string
}

// ResponseFunc 根据请求生成回复内容
type ResponseFunc func(req RecordedRequest) string

// MockOpenAIServer 模拟 OpenAI 兼容的 /chat/completions 接口
type MockOpenAIServer struct {
	Server *httptest.Server
	// URL 带 /v1 后缀的基础地址，可直接作为 base_url 使用
	URL string

	mu              sync.Mutex
	responses       map[string]string
	defaultResponse string
	responseFunc    ResponseFunc
	failures        int
	failStatus      int
	emptyChoices    bool
	delay           time.Duration
	requests        []RecordedRequest
}

// NewMockOpenAIServer 创建模拟服务器，测试结束时自动关闭
func NewMockOpenAIServer(t *testing.T) *MockOpenAIServer {
	t.Helper()

	mock := &MockOpenAIServer{
		responses:       make(map[string]string),
		defaultResponse: "这是翻译后的文本",
		failStatus:      http.StatusInternalServerError,
	}

	server := httptest.NewServer(http.HandlerFunc(mock.handle))
	mock.Server = server
	mock.URL = server.URL + "/v1"

	t.Cleanup(server.Close)
	return mock
}

func (m *MockOpenAIServer) handle(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
		writeError(w, http.StatusNotFound, "unknown endpoint", "invalid_request_error")
		return
	}

	var body struct {
		Model    string            `json:"model"`
		Messages []RecordedMessage `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "cannot parse request body", "invalid_request_error")
		return
	}
	req := RecordedRequest{Model: body.Model, Messages: body.Messages, Authorization: r.Header.Get("Authorization")}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	delay := m.delay
	fail := m.failures > 0
	if fail {
		m.failures--
	}
	status := m.failStatus
	empty := m.emptyChoices
	response := m.lookup(req)
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if fail {
		writeError(w, status, "simulated failure", "server_error")
		return
	}

	choices := []map[string]any{}
	if !empty {
		choices = append(choices, map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": response},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-mock",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   body.Model,
		"choices": choices,
		"usage": map[string]any{
			"prompt_tokens":     100,
			"completion_tokens": 50,
			"total_tokens":      150,
		},
	})
}

// lookup 调用方需持有锁
func (m *MockOpenAIServer) lookup(req RecordedRequest) string {
	var userMessage string
	for _, msg := range req.Messages {
		if msg.Role == "user" {
			userMessage = msg.Content
		}
	}
	if response, ok := m.responses[userMessage]; ok {
		return response
	}
	if m.responseFunc != nil {
		return m.responseFunc(req)
	}
	return m.defaultResponse
}

func writeError(w http.ResponseWriter, status int, message, errType string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message, "type": errType},
	})
}

// AddResponse 为特定用户消息设置回复
func (m *MockOpenAIServer) AddResponse(request, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[request] = response
}

// SetDefaultResponse 设置默认回复
func (m *MockOpenAIServer) SetDefaultResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResponse = response
}

// SetResponseFunc 用函数生成回复，优先级低于 AddResponse
func (m *MockOpenAIServer) SetResponseFunc(fn ResponseFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responseFunc = fn
}

// EchoUserMessage 原样返回用户消息
func (m *MockOpenAIServer) EchoUserMessage() {
	m.SetResponseFunc(func(req RecordedRequest) string {
		for i := len(req.Messages) - 1; i >= 0; i-- {
			if req.Messages[i].Role == "user" {
				return req.Messages[i].Content
			}
		}
		return ""
	})
}

// FailNext 让接下来的 n 个请求返回指定状态码
func (m *MockOpenAIServer) FailNext(n, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
	m.failStatus = status
}

// SetEmptyChoices 让响应不包含任何候选
func (m *MockOpenAIServer) SetEmptyChoices(empty bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emptyChoices = empty
}

// SetDelay 设置每个请求的延迟
func (m *MockOpenAIServer) SetDelay(delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = delay
}

// Requests 返回已收到请求的副本
func (m *MockOpenAIServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}
