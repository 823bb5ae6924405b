// Package component 构建 Eino ChatModel
// 将归一化配置翻译成各 Provider 客户端的构造参数
package component

import (
	"context"
	"fmt"
	"time"

	ollamaext "github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/ollama/ollama/api"

	"llmbridge/internal/llm"
)

// NewChatModel 根据配置创建 ChatModel
// timeout 为 0 表示不设超时（完整调用路径）；连通性测试路径传固定 30s
func NewChatModel(ctx context.Context, cfg *llm.Config, timeout time.Duration) (model.BaseChatModel, error) {
	switch cfg.Kind {
	case llm.KindOpenAI:
		return newOpenAIChatModel(ctx, cfg, timeout)
	case llm.KindOllama:
		return newOllamaChatModel(ctx, cfg, timeout)
	default:
		return nil, fmt.Errorf("unsupported provider kind: %s", cfg.Kind)
	}
}

// newOpenAIChatModel 创建 OpenAI 兼容后端的 ChatModel
func newOpenAIChatModel(ctx context.Context, cfg *llm.Config, timeout time.Duration) (model.BaseChatModel, error) {
	temp := float32(cfg.Temperature)
	topP := float32(cfg.TopP)
	freq := float32(cfg.FrequencyPenalty)
	pres := float32(cfg.PresencePenalty)

	modelCfg := &openai.ChatModelConfig{
		Model:            cfg.Model,
		APIKey:           cfg.APIKey,
		Temperature:      &temp,
		TopP:             &topP,
		FrequencyPenalty: &freq,
		PresencePenalty:  &pres,
		Timeout:          timeout,
	}

	// Base URL 为空时客户端回落到官方端点
	if cfg.BaseURL != "" {
		modelCfg.BaseURL = cfg.BaseURL
	}
	if cfg.MaxTokens > 0 {
		modelCfg.MaxTokens = &cfg.MaxTokens
	}

	return openai.NewChatModel(ctx, modelCfg)
}

// newOllamaChatModel 创建本地 Ollama 服务的 ChatModel
func newOllamaChatModel(ctx context.Context, cfg *llm.Config, timeout time.Duration) (model.BaseChatModel, error) {
	opts := &api.Options{
		Temperature:      float32(cfg.Temperature),
		TopK:             cfg.TopK,
		TopP:             float32(cfg.TopP),
		RepeatPenalty:    float32(cfg.RepeatPenalty),
		FrequencyPenalty: float32(cfg.FrequencyPenalty),
		PresencePenalty:  float32(cfg.PresencePenalty),
	}
	if cfg.MaxTokens > 0 {
		opts.NumPredict = cfg.MaxTokens
	}

	modelCfg := &ollamaext.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: timeout,
		Options: opts,
	}

	return ollamaext.NewChatModel(ctx, modelCfg)
}
