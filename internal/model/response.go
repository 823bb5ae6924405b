package model

import "llmbridge/internal/llm"

// Envelope 两个 HTTP 端点共用的固定响应包裹
// success 决定 response/error 哪个被填充，二者不同时出现
type Envelope struct {
	Success    bool            `json:"success"`
	Response   string          `json:"response,omitempty"`
	TokenUsage *llm.TokenUsage `json:"tokenUsage,omitempty"`
	Message    string          `json:"message,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// OK 成功响应
func OK(response string, usage *llm.TokenUsage) Envelope {
	return Envelope{Success: true, Response: response, TokenUsage: usage}
}

// Fail 失败响应
func Fail(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}
