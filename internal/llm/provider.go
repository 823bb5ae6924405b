package llm

// ProviderKind 后端提供方类型
// 两种取值构成封闭集合，Invoker 的分发点对其做穷尽匹配
type ProviderKind string

const (
	// KindOpenAI 云端 API-Key 认证的 OpenAI 兼容后端
	KindOpenAI ProviderKind = "openai"
	// KindOllama 本地部署的 Ollama 模型服务
	KindOllama ProviderKind = "ollama"
)

// Locale 错误提示语言
type Locale string

const (
	LocaleZH Locale = "zh"
	LocaleEN Locale = "en"
)

// ParseProviderKind 解析提供方类型，不在封闭集合内返回 ValidationError
func ParseProviderKind(s string) (ProviderKind, error) {
	switch ProviderKind(s) {
	case KindOpenAI:
		return KindOpenAI, nil
	case KindOllama:
		return KindOllama, nil
	default:
		return "", &ValidationError{Field: "llmType", Reason: "must be \"openai\" or \"ollama\""}
	}
}
