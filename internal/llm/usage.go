package llm

import (
	"github.com/cloudwego/eino/schema"
)

// TokenUsage 一次补全调用的 token 统计
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// usageStrategy 从响应消息的某个位置尝试提取 token 统计，提取不到返回 nil
type usageStrategy struct {
	name    string
	extract func(msg *schema.Message) *TokenUsage
}

// usageStrategies 按优先级排列的提取策略
// 结构化 ResponseMeta 最新最准确，优先；两个 Extra 位置是旧版客户端的遗留形态
var usageStrategies = []usageStrategy{
	{name: "response_meta", extract: usageFromResponseMeta},
	{name: "extra_token_usage", extract: usageFromExtraKey("token_usage")},
	{name: "extra_usage", extract: usageFromExtraKey("usage")},
}

// ExtractUsage 按优先级尝试各提取策略，首个命中者生效
// 全部未命中返回 nil 和空串，调用方按信息日志处理而非报错（流式响应下常见）
func ExtractUsage(msg *schema.Message) (*TokenUsage, string) {
	if msg == nil {
		return nil, ""
	}
	for _, s := range usageStrategies {
		if u := s.extract(msg); u != nil {
			return u, s.name
		}
	}
	return nil, ""
}

func usageFromResponseMeta(msg *schema.Message) *TokenUsage {
	if msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return nil
	}
	u := msg.ResponseMeta.Usage
	return &TokenUsage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

func usageFromExtraKey(key string) func(msg *schema.Message) *TokenUsage {
	return func(msg *schema.Message) *TokenUsage {
		if msg.Extra == nil {
			return nil
		}
		raw, ok := msg.Extra[key]
		if !ok {
			return nil
		}
		switch v := raw.(type) {
		case *TokenUsage:
			return v
		case TokenUsage:
			return &v
		case *schema.TokenUsage:
			return &TokenUsage{
				PromptTokens:     v.PromptTokens,
				CompletionTokens: v.CompletionTokens,
				TotalTokens:      v.TotalTokens,
			}
		case map[string]any:
			return usageFromMap(v)
		default:
			return nil
		}
	}
}

// usageFromMap 兼容不同客户端的字段拼写：
// input_tokens/output_tokens（新）、prompt_tokens/completion_tokens（旧）、
// promptTokens/completionTokens（legacy tokenUsage）
func usageFromMap(m map[string]any) *TokenUsage {
	prompt, okP := intField(m, "input_tokens", "prompt_tokens", "promptTokens")
	completion, okC := intField(m, "output_tokens", "completion_tokens", "completionTokens")
	total, okT := intField(m, "total_tokens", "totalTokens")

	if !okP && !okC && !okT {
		return nil
	}
	if !okT {
		total = prompt + completion
	}
	return &TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      total,
	}
}

func intField(m map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case int:
			return v, true
		case int32:
			return int(v), true
		case int64:
			return int(v), true
		case float64:
			return int(v), true
		}
	}
	return 0, false
}
