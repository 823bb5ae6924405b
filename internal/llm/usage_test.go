package llm

import (
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestExtractUsageFromResponseMeta(t *testing.T) {
	msg := &schema.Message{
		Role:    schema.Assistant,
		Content: "hi",
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
	}

	usage, source := ExtractUsage(msg)
	if usage == nil {
		t.Fatal("ExtractUsage() = nil, want usage")
	}
	if source != "response_meta" {
		t.Errorf("source = %q, want response_meta", source)
	}
	if usage.PromptTokens != 10 || usage.CompletionTokens != 5 || usage.TotalTokens != 15 {
		t.Errorf("usage = %+v, want {10 5 15}", usage)
	}
}

// ResponseMeta 优先于 Extra 里的遗留形态
func TestExtractUsagePriorityOrder(t *testing.T) {
	msg := &schema.Message{
		Role:    schema.Assistant,
		Content: "hi",
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3},
		},
		Extra: map[string]any{
			"token_usage": map[string]any{"promptTokens": 100.0, "completionTokens": 200.0, "totalTokens": 300.0},
		},
	}

	usage, source := ExtractUsage(msg)
	if source != "response_meta" {
		t.Errorf("source = %q, want response_meta to win", source)
	}
	if usage.TotalTokens != 3 {
		t.Errorf("TotalTokens = %d, want 3 from response_meta", usage.TotalTokens)
	}
}

func TestExtractUsageLegacyShapes(t *testing.T) {
	tests := []struct {
		name       string
		extra      map[string]any
		wantSource string
		want       TokenUsage
	}{
		{
			name:       "legacy tokenUsage camelCase",
			extra:      map[string]any{"token_usage": map[string]any{"promptTokens": 10.0, "completionTokens": 5.0, "totalTokens": 15.0}},
			wantSource: "extra_token_usage",
			want:       TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
		{
			name:       "alternate usage snake_case",
			extra:      map[string]any{"usage": map[string]any{"prompt_tokens": 7.0, "completion_tokens": 3.0, "total_tokens": 10.0}},
			wantSource: "extra_usage",
			want:       TokenUsage{PromptTokens: 7, CompletionTokens: 3, TotalTokens: 10},
		},
		{
			name:       "input/output token naming",
			extra:      map[string]any{"usage": map[string]any{"input_tokens": 10.0, "output_tokens": 5.0, "total_tokens": 15.0}},
			wantSource: "extra_usage",
			want:       TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
		{
			name:       "total derived when missing",
			extra:      map[string]any{"usage": map[string]any{"prompt_tokens": 4, "completion_tokens": 6}},
			wantSource: "extra_usage",
			want:       TokenUsage{PromptTokens: 4, CompletionTokens: 6, TotalTokens: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &schema.Message{Role: schema.Assistant, Content: "hi", Extra: tt.extra}
			usage, source := ExtractUsage(msg)
			if usage == nil {
				t.Fatal("ExtractUsage() = nil, want usage")
			}
			if source != tt.wantSource {
				t.Errorf("source = %q, want %q", source, tt.wantSource)
			}
			if *usage != tt.want {
				t.Errorf("usage = %+v, want %+v", *usage, tt.want)
			}
		})
	}
}

// 所有位置都没有 usage 时返回 nil，不算错误
func TestExtractUsageAbsent(t *testing.T) {
	tests := []struct {
		name string
		msg  *schema.Message
	}{
		{"nil message", nil},
		{"bare message", &schema.Message{Role: schema.Assistant, Content: "hi"}},
		{"empty extra", &schema.Message{Role: schema.Assistant, Content: "hi", Extra: map[string]any{}}},
		{"unrelated extra", &schema.Message{Role: schema.Assistant, Content: "hi", Extra: map[string]any{"foo": "bar"}}},
		{"usage with no numeric fields", &schema.Message{Role: schema.Assistant, Content: "hi", Extra: map[string]any{"usage": map[string]any{"note": "n/a"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usage, source := ExtractUsage(tt.msg)
			if usage != nil {
				t.Errorf("ExtractUsage() = %+v, want nil", usage)
			}
			if source != "" {
				t.Errorf("source = %q, want empty", source)
			}
		})
	}
}
