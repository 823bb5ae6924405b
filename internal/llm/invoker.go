// Package llm 后端配置归一化与模型调用分发
//
// 仓库自有的逻辑只有参数校验、URL 规整、双后端分发和 usage 提取，
// 模型推理、HTTP 传输、Prompt 模板均委托给 Eino 及各 Provider 客户端。
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
)

// Exchange 一次对话交换：system + user 两条消息
// 构造后不可变，每次调用消费一次
type Exchange struct {
	System string
	User   string
}

// Result 统一的调用结果
// Usage 是否存在取决于 Provider 和响应形态，缺失不是错误
type Result struct {
	Text  string
	Usage *TokenUsage
}

// ModelFactory 按配置构造 ChatModel
// 注入点：生产路径用 component.NewChatModel，测试注入假实现
type ModelFactory func(ctx context.Context, cfg *Config, timeout time.Duration) (model.BaseChatModel, error)

// Hooks 可注入的观测扩展点（调用开始、usage 缺失、失败）
type Hooks struct {
	OnInvoke    func(kind ProviderKind, model string, stream bool)
	OnUsageMiss func(kind ProviderKind, model string)
	OnError     func(kind ProviderKind, err error)
}

// DefaultHooks 默认走 zerolog 全局 logger
func DefaultHooks() Hooks {
	return Hooks{
		OnInvoke: func(kind ProviderKind, model string, stream bool) {
			log.Debug().
				Str("provider", string(kind)).
				Str("model", model).
				Bool("stream", stream).
				Msg("invoking chat model")
		},
		OnUsageMiss: func(kind ProviderKind, model string) {
			// 流式模式下见不到 usage 很常见，信息级记录即可
			log.Info().
				Str("provider", string(kind)).
				Str("model", model).
				Msg("usage metadata unavailable in response")
		},
		OnError: func(kind ProviderKind, err error) {
			log.Error().
				Str("provider", string(kind)).
				Err(err).
				Msg("chat model invocation failed")
		},
	}
}

// Invoker 模型调用器：按 ProviderKind 分发到对应客户端
type Invoker struct {
	factory ModelFactory
	hooks   Hooks
}

// NewInvoker 创建调用器
func NewInvoker(factory ModelFactory) *Invoker {
	return &Invoker{factory: factory, hooks: DefaultHooks()}
}

// WithHooks 替换观测钩子，返回自身便于链式构造
func (iv *Invoker) WithHooks(h Hooks) *Invoker {
	if h.OnInvoke == nil {
		h.OnInvoke = func(ProviderKind, string, bool) {}
	}
	if h.OnUsageMiss == nil {
		h.OnUsageMiss = func(ProviderKind, string) {}
	}
	if h.OnError == nil {
		h.OnError = func(ProviderKind, error) {}
	}
	iv.hooks = h
	return iv
}

// Invoke 发起一次补全调用
// 失败返回 ProviderError（传输/鉴权/模型侧错误）或 ErrEmptyResponse/ErrInvalidResponse
func (iv *Invoker) Invoke(ctx context.Context, ex Exchange, cfg *Config) (*Result, error) {
	if strings.TrimSpace(ex.System) == "" {
		return nil, &ValidationError{Field: "systemMessage", Reason: "is required"}
	}
	if strings.TrimSpace(ex.User) == "" {
		return nil, &ValidationError{Field: "userMessage", Reason: "is required"}
	}

	iv.hooks.OnInvoke(cfg.Kind, cfg.Model, cfg.Stream)

	// 完整调用路径不设超时，长文本生成可能持续很久
	cm, err := iv.factory(ctx, cfg, 0)
	if err != nil {
		iv.hooks.OnError(cfg.Kind, err)
		return nil, &ProviderError{Kind: cfg.Kind, Err: err}
	}

	var result *Result
	err = iv.withRetry(cfg, func() error {
		switch cfg.Kind {
		case KindOpenAI:
			result, err = iv.invokeOpenAI(ctx, cm, ex, cfg)
		case KindOllama:
			result, err = iv.invokeOllama(ctx, cm, ex, cfg)
		default:
			err = &ValidationError{Field: "llmType", Reason: "must be \"openai\" or \"ollama\""}
		}
		return err
	})
	if err != nil {
		iv.hooks.OnError(cfg.Kind, err)
		return nil, err
	}
	return result, nil
}

// Test 连通性测试路径：单条简单消息、低温采样、固定 30s 超时
// 任何非空（trim 后）的响应都算成功；不做 usage 提取
func (iv *Invoker) Test(ctx context.Context, cfg *Config) (string, error) {
	testCfg := *cfg
	testCfg.Temperature = 0.01
	testCfg.Stream = false

	iv.hooks.OnInvoke(testCfg.Kind, testCfg.Model, false)

	cm, err := iv.factory(ctx, &testCfg, TestTimeout)
	if err != nil {
		iv.hooks.OnError(testCfg.Kind, err)
		return "", &ProviderError{Kind: testCfg.Kind, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, TestTimeout)
	defer cancel()

	resp, err := cm.Generate(ctx, []*schema.Message{
		schema.UserMessage("Hi, please reply with a short greeting."),
	})
	if err != nil {
		iv.hooks.OnError(testCfg.Kind, err)
		return "", &ProviderError{Kind: testCfg.Kind, Err: err}
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", fmt.Errorf("connectivity test: %w", ErrEmptyResponse)
	}
	return text, nil
}

// invokeOpenAI 云端路径：两条消息直接 Generate（或流式拼接），
// 按优先级提取 usage 元数据
func (iv *Invoker) invokeOpenAI(ctx context.Context, cm model.BaseChatModel, ex Exchange, cfg *Config) (*Result, error) {
	messages := []*schema.Message{
		schema.SystemMessage(ex.System),
		schema.UserMessage(ex.User),
	}

	var resp *schema.Message
	var err error
	if cfg.Stream {
		resp, err = streamAndConcat(ctx, cm, messages)
	} else {
		resp, err = cm.Generate(ctx, messages)
	}
	if err != nil {
		return nil, &ProviderError{Kind: cfg.Kind, Err: err}
	}

	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return nil, fmt.Errorf("openai response: %w", ErrEmptyResponse)
	}

	result := &Result{Text: resp.Content}
	if cfg.TrackUsage {
		usage, source := ExtractUsage(resp)
		if usage == nil {
			iv.hooks.OnUsageMiss(cfg.Kind, cfg.Model)
		} else {
			log.Debug().Str("source", source).Msg("token usage extracted")
			result.Usage = usage
		}
	}
	return result, nil
}

// invokeOllama 本地路径：模板 -> 模型 -> 文本提取 三段链
// Ollama 客户端在该路径不暴露结构化 usage，Result.Usage 恒为 nil
func (iv *Invoker) invokeOllama(ctx context.Context, cm model.BaseChatModel, ex Exchange, cfg *Config) (*Result, error) {
	template := prompt.FromMessages(schema.FString,
		schema.SystemMessage("{system_message}"),
		schema.UserMessage("{user_message}"),
	)

	chain := compose.NewChain[map[string]any, string]()
	chain.
		AppendChatTemplate(template).
		AppendChatModel(cm).
		AppendLambda(compose.InvokableLambda(extractText))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, &ProviderError{Kind: cfg.Kind, Err: err}
	}

	text, err := runnable.Invoke(ctx, map[string]any{
		"system_message": ex.System,
		"user_message":   ex.User,
	})
	if err != nil {
		return nil, &ProviderError{Kind: cfg.Kind, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("ollama response: %w", ErrEmptyResponse)
	}

	return &Result{Text: text}, nil
}

// extractText 链路末端的纯文本提取
// 最终产物不是文本消息时视为非法响应，空内容由调用方判定
func extractText(_ context.Context, msg *schema.Message) (string, error) {
	if msg == nil {
		return "", ErrInvalidResponse
	}
	return msg.Content, nil
}

// streamAndConcat 流式调用并拼接全部分片
func streamAndConcat(ctx context.Context, cm model.BaseChatModel, messages []*schema.Message) (*schema.Message, error) {
	reader, err := cm.Stream(ctx, messages)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var chunks []*schema.Message
	for {
		chunk, err := reader.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("stream: %w", ErrEmptyResponse)
	}
	return schema.ConcatMessages(chunks)
}

// withRetry 按 MaxRetries 做有界立即重试
// 默认 0 次：宁可快速失败也不掩盖后端问题；空响应类错误不重试
func (iv *Invoker) withRetry(cfg *Config, fn func() error) error {
	attempts := cfg.MaxRetries + 1
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		var pe *ProviderError
		if !errors.As(err, &pe) {
			return err
		}
		if i < attempts-1 {
			log.Warn().
				Int("attempt", i+1).
				Int("max_attempts", attempts).
				Err(err).
				Msg("retrying chat model invocation")
		}
	}
	return err
}
