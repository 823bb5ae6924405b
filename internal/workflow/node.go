// Package workflow 工作流图节点适配层
//
// 托管引擎本身（图执行、失败策略）在外部，这里只提供节点契约
// 和把节点输入桥接到本服务 HTTP 端点的实现。
package workflow

import "context"

// Input 节点输入，键名遵循前端节点面板的 camelCase 约定
type Input map[string]any

// Output 节点输出，供下游节点消费和链路追踪
type Output map[string]any

// Node 图节点
// Run 返回错误时由托管引擎按自身策略处理节点级失败，这里不做恢复或重试
type Node interface {
	Type() string
	Run(ctx context.Context, in Input) (Output, error)
}

// String 从输入中取字符串字段
func (in Input) String(key string) (string, bool) {
	raw, ok := in[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Float 从输入中取数值字段（JSON 解码后数值统一是 float64）
func (in Input) Float(key string) (float64, bool) {
	raw, ok := in[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Bool 从输入中取布尔字段
func (in Input) Bool(key string) (bool, bool) {
	raw, ok := in[key]
	if !ok {
		return false, false
	}
	b, ok := raw.(bool)
	return b, ok
}
