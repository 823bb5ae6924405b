package llm

import (
	"strings"
	"time"
)

// 采样参数默认值（字段缺省时才应用）
const (
	defaultTemperature      = 0.7
	defaultTopP             = 0.7
	defaultTopK             = 40
	defaultFrequencyPenalty = 0
	defaultPresencePenalty  = 0
	defaultRepeatPenalty    = 1.1
	defaultMaxRetries       = 0

	// DefaultOllamaBaseURL Ollama 服务缺省地址
	DefaultOllamaBaseURL = "http://localhost:11434"

	// TestTimeout 连通性测试路径的固定超时
	// 完整调用路径不设超时（长文本生成可能远超任何固定上限），两者的不对称是有意为之
	TestTimeout = 30 * time.Second
)

// RawConfig 前端传入的原始配置（wire 形态）
// 可选数值用指针表达缺省，便于区分 "未传" 和 "显式传 0"
type RawConfig struct {
	LLMType          string   `json:"llmType"`
	Model            string   `json:"model"`
	BaseURL          string   `json:"baseUrl,omitempty"`
	APIKey           string   `json:"apiKey,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	TopK             *int     `json:"topK,omitempty"`
	FrequencyPenalty *float64 `json:"frequencyPenalty,omitempty"`
	PresencePenalty  *float64 `json:"presencePenalty,omitempty"`
	RepeatPenalty    *float64 `json:"repeatPenalty,omitempty"`
	MaxTokens        *int     `json:"maxTokens,omitempty"`
	MaxRetries       *int     `json:"maxRetries,omitempty"`
	Stream           bool     `json:"stream,omitempty"`
	TrackUsage       *bool    `json:"trackUsage,omitempty"`
	Locale           string   `json:"locale,omitempty"`
}

// Config 归一化之后的后端配置
// Kind 决定哪些参数子集有效：TopK/RepeatPenalty 仅 Ollama，
// FrequencyPenalty/PresencePenalty 主要用于 OpenAI
type Config struct {
	Kind             ProviderKind
	Model            string
	BaseURL          string
	APIKey           string
	Temperature      float64
	TopP             float64
	TopK             int
	FrequencyPenalty float64
	PresencePenalty  float64
	RepeatPenalty    float64
	MaxTokens        int // 0 表示不限制
	MaxRetries       int
	Stream           bool
	TrackUsage       bool
	Locale           Locale
}

// Normalize 校验原始配置并补全默认值
// model 缺失或 llmType 不合法时返回 ValidationError
func Normalize(raw *RawConfig) (*Config, error) {
	if raw == nil {
		return nil, &ValidationError{Field: "config", Reason: "is required"}
	}

	kind, err := ParseProviderKind(raw.LLMType)
	if err != nil {
		return nil, err
	}

	model := strings.TrimSpace(raw.Model)
	if model == "" {
		return nil, &ValidationError{Field: "model", Reason: "is required"}
	}

	cfg := &Config{
		Kind:             kind,
		Model:            model,
		APIKey:           strings.TrimSpace(raw.APIKey),
		Temperature:      floatOr(raw.Temperature, defaultTemperature),
		TopP:             floatOr(raw.TopP, defaultTopP),
		TopK:             intOr(raw.TopK, defaultTopK),
		FrequencyPenalty: floatOr(raw.FrequencyPenalty, defaultFrequencyPenalty),
		PresencePenalty:  floatOr(raw.PresencePenalty, defaultPresencePenalty),
		RepeatPenalty:    floatOr(raw.RepeatPenalty, defaultRepeatPenalty),
		MaxTokens:        intOr(raw.MaxTokens, 0),
		MaxRetries:       intOr(raw.MaxRetries, defaultMaxRetries),
		Stream:           raw.Stream,
		TrackUsage:       boolOr(raw.TrackUsage, true),
		Locale:           parseLocale(raw.Locale),
	}

	switch kind {
	case KindOllama:
		cfg.BaseURL = NormalizeOllamaBaseURL(raw.BaseURL)
	case KindOpenAI:
		// OpenAI 客户端容忍空 base URL（回落到官方端点），原样透传
		cfg.BaseURL = strings.TrimSpace(raw.BaseURL)
	}

	return cfg, nil
}

// NormalizeOllamaBaseURL 规整用户填写的 Ollama 地址
// 本地模型服务经常被配置成裸 host:port 甚至裸端口，按顺序应用一次改写规则，
// else-if 链保证规则互斥，不会对已合法的 URL 重复加前缀
func NormalizeOllamaBaseURL(raw string) string {
	url := strings.TrimSpace(raw)
	if url == "" {
		return DefaultOllamaBaseURL
	}

	if url == "localhost:11434" || url == "11434" {
		url = DefaultOllamaBaseURL
	} else if strings.HasPrefix(url, "localhost:") && !strings.HasPrefix(url, "http://") {
		url = "http://" + url
	} else if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	return strings.TrimSuffix(url, "/")
}

func parseLocale(s string) Locale {
	if Locale(s) == LocaleEN {
		return LocaleEN
	}
	return LocaleZH
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
