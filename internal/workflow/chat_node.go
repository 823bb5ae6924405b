package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"llmbridge/internal/llm"
	"llmbridge/internal/model"
	"llmbridge/internal/pkg/transport"
)

// TypeChat 对话节点类型名
const TypeChat = "chat"

func init() {
	Register(TypeChat, func(opts Options) Node {
		return NewChatNode(opts.Endpoint, opts.Client)
	})
}

// ChatNode 对话节点
// 把节点输入映射为 InvokeRequest，经 HTTP 调用本服务后把 envelope
// 映射回节点输出契约
type ChatNode struct {
	endpoint string
	client   *http.Client
}

// NewChatNode 创建对话节点
// client 为 nil 时自建不限时客户端，与完整调用路径的无超时语义一致
func NewChatNode(endpoint string, client *http.Client) *ChatNode {
	if client == nil {
		client = transport.NewHTTPClient(0)
	}
	return &ChatNode{endpoint: endpoint, client: client}
}

// Type 节点类型
func (n *ChatNode) Type() string {
	return TypeChat
}

// Run 执行节点
// systemMessage/userMessage 缺失时本地直接失败，不发起任何网络调用；
// envelope 失败时原样抛出其中的错误文案，交给托管引擎处理
func (n *ChatNode) Run(ctx context.Context, in Input) (Output, error) {
	system, ok := in.String("systemMessage")
	if !ok {
		return nil, &llm.NodeInputError{Key: "systemMessage"}
	}
	user, ok := in.String("userMessage")
	if !ok {
		return nil, &llm.NodeInputError{Key: "userMessage"}
	}

	raw := n.buildConfig(in)
	req := model.InvokeRequest{
		SystemMessage: system,
		UserMessage:   user,
		Config:        raw,
	}

	env, err := n.post(ctx, req)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, errors.New(env.Error)
	}

	out := Output{
		"response":      env.Response,
		"systemMessage": system,
		"userMessage":   user,
		"model":         raw.Model,
		"llmType":       raw.LLMType,
	}
	if env.TokenUsage != nil {
		out["tokenUsage"] = env.TokenUsage
	}
	return out, nil
}

// buildConfig 从节点输入组装原始配置
// 缺省：llmType openai、locale zh、stream false、trackUsage true
func (n *ChatNode) buildConfig(in Input) *llm.RawConfig {
	raw := &llm.RawConfig{
		LLMType: string(llm.KindOpenAI),
		Locale:  string(llm.LocaleZH),
	}

	if v, ok := in.String("llmType"); ok {
		raw.LLMType = v
	}
	if v, ok := in.String("model"); ok {
		raw.Model = v
	}
	if v, ok := in.String("baseUrl"); ok {
		raw.BaseURL = v
	}
	if v, ok := in.String("apiKey"); ok {
		raw.APIKey = v
	}
	if v, ok := in.String("locale"); ok {
		raw.Locale = v
	}
	if v, ok := in.Float("temperature"); ok {
		raw.Temperature = &v
	}
	if v, ok := in.Float("topP"); ok {
		raw.TopP = &v
	}
	if v, ok := in.Float("maxTokens"); ok {
		mt := int(v)
		raw.MaxTokens = &mt
	}
	if v, ok := in.Bool("stream"); ok {
		raw.Stream = v
	}
	if v, ok := in.Bool("trackUsage"); ok {
		raw.TrackUsage = &v
	}

	return raw
}

// post 发起对本服务调用端点的 HTTP 请求并解出 envelope
func (n *ChatNode) post(ctx context.Context, req model.InvokeRequest) (*model.Envelope, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal invoke request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build invoke request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call llm endpoint: %w", err)
	}
	defer resp.Body.Close()

	var env model.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode llm endpoint response: %w", err)
	}
	return &env, nil
}
