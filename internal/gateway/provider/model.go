package provider

import "context"

// ChatPayload 一次聊天补全请求的全部生成参数。
type ChatPayload struct {
	System      string
	User        string
	ExpectJSON  bool
	Temperature float64
	MaxTokens   int
}

// ModelProvider 推理能力接口。具体认证/传输方式由实现决定，
// 在构造期按配置选择实现，调用方不做类型判断。
type ModelProvider interface {
	ID() string
	Call(ctx context.Context, payload ChatPayload) (string, error)
}
