package llm

import (
	"errors"
	"fmt"
)

// ValidationError 配置校验失败（缺失/非法字段）
// 在 HTTP 边界映射为 400
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

// ProviderError 后端客户端失败（网络/鉴权/模型侧错误）
// 在 HTTP 边界映射为 500，message 透传底层错误信息
type ProviderError struct {
	Kind ProviderKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrEmptyResponse 后端返回空响应内容
var ErrEmptyResponse = errors.New("empty response from model")

// ErrInvalidResponse 本地模型链路最终产物不是文本
var ErrInvalidResponse = errors.New("model response is not text")

// NodeInputError 工作流节点本地前置校验失败（发起网络调用之前）
type NodeInputError struct {
	Key string
}

func (e *NodeInputError) Error() string {
	return fmt.Sprintf("node input missing required field: %s", e.Key)
}
