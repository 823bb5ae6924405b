package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"llmbridge/internal/model"
	"llmbridge/internal/workflow"
)

func TestCheckViaEndpoint(t *testing.T) {
	var got model.InvokeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.Envelope{Success: true, Response: "hello there"})
	}))
	defer srv.Close()

	text, err := checkViaEndpoint(context.Background(), srv.URL, workflow.Input{
		"llmType": "ollama",
		"model":   "llama3",
		"baseUrl": "http://localhost:11434",
	})
	if err != nil {
		t.Fatalf("checkViaEndpoint() unexpected error: %v", err)
	}
	if text != "hello there" {
		t.Errorf("response = %q, want hello there", text)
	}

	// 经由节点发出的就是标准调用请求
	if got.SystemMessage == "" || got.UserMessage == "" {
		t.Error("request missing system/user message")
	}
	if got.Config == nil || got.Config.LLMType != "ollama" || got.Config.Model != "llama3" {
		t.Errorf("config = %+v, want ollama/llama3", got.Config)
	}
}

func TestCheckViaEndpointFailureEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(model.Envelope{Success: false, Error: "connection refused"})
	}))
	defer srv.Close()

	_, err := checkViaEndpoint(context.Background(), srv.URL, workflow.Input{
		"llmType": "openai",
		"model":   "gpt-4o-mini",
	})
	if err == nil || err.Error() != "connection refused" {
		t.Errorf("err = %v, want envelope error verbatim", err)
	}
}
