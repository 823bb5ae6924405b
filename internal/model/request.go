package model

import "llmbridge/internal/llm"

// InvokeRequest 对话调用请求
// 字段名遵循前端工作流节点的 camelCase 约定
type InvokeRequest struct {
	SystemMessage string         `json:"systemMessage"`
	UserMessage   string         `json:"userMessage"`
	Config        *llm.RawConfig `json:"config"`
}

// TestRequest 连通性测试请求
type TestRequest struct {
	LLMType string `json:"llmType"`
	BaseURL string `json:"baseUrl"`
	Model   string `json:"model"`
	APIKey  string `json:"apiKey,omitempty"`
}
