package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"llmbridge/internal/llm"
	"llmbridge/internal/model"
)

// fakeEndpoint 伪造的调用端点，记录请求次数和最后一次请求体
type fakeEndpoint struct {
	hits    atomic.Int64
	lastReq model.InvokeRequest
	env     model.Envelope
	status  int
}

func (f *fakeEndpoint) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		_ = json.NewDecoder(r.Body).Decode(&f.lastReq)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_ = json.NewEncoder(w).Encode(f.env)
	}
}

func TestChatNodeRun(t *testing.T) {
	Convey("Given a chat node pointing at a fake invoke endpoint", t, func() {
		endpoint := &fakeEndpoint{
			status: http.StatusOK,
			env:    model.Envelope{Success: true, Response: "bonjour"},
		}
		srv := httptest.NewServer(endpoint.handler())
		defer srv.Close()

		node := NewChatNode(srv.URL, srv.Client())

		Convey("When systemMessage is missing", func() {
			_, err := node.Run(context.Background(), Input{
				"userMessage": "hi",
				"model":       "gpt-4o-mini",
			})

			Convey("It fails locally before any network call", func() {
				var nie *llm.NodeInputError
				So(errors.As(err, &nie), ShouldBeTrue)
				So(endpoint.hits.Load(), ShouldEqual, 0)
			})
		})

		Convey("When userMessage is missing", func() {
			_, err := node.Run(context.Background(), Input{
				"systemMessage": "be brief",
			})

			Convey("It fails locally before any network call", func() {
				var nie *llm.NodeInputError
				So(errors.As(err, &nie), ShouldBeTrue)
				So(endpoint.hits.Load(), ShouldEqual, 0)
			})
		})

		Convey("When the endpoint succeeds", func() {
			out, err := node.Run(context.Background(), Input{
				"systemMessage": "be brief",
				"userMessage":   "say hi",
				"model":         "gpt-4o-mini",
				"apiKey":        "sk-x",
				"temperature":   0.2,
			})

			Convey("It maps the envelope into node output", func() {
				So(err, ShouldBeNil)
				So(out["response"], ShouldEqual, "bonjour")
				So(out["systemMessage"], ShouldEqual, "be brief")
				So(out["userMessage"], ShouldEqual, "say hi")
				So(out["model"], ShouldEqual, "gpt-4o-mini")
				So(out["llmType"], ShouldEqual, "openai")
			})

			Convey("It sends the node fields as an invoke request with defaults", func() {
				So(endpoint.hits.Load(), ShouldEqual, 1)
				So(endpoint.lastReq.SystemMessage, ShouldEqual, "be brief")
				So(endpoint.lastReq.UserMessage, ShouldEqual, "say hi")
				So(endpoint.lastReq.Config, ShouldNotBeNil)
				So(endpoint.lastReq.Config.LLMType, ShouldEqual, "openai")
				So(endpoint.lastReq.Config.Locale, ShouldEqual, "zh")
				So(endpoint.lastReq.Config.Stream, ShouldBeFalse)
				So(*endpoint.lastReq.Config.Temperature, ShouldEqual, 0.2)
			})
		})

		Convey("When the endpoint reports a failure envelope", func() {
			endpoint.env = model.Envelope{Success: false, Error: "model overloaded"}
			endpoint.status = http.StatusInternalServerError

			_, err := node.Run(context.Background(), Input{
				"systemMessage": "s",
				"userMessage":   "u",
				"model":         "gpt-4o-mini",
			})

			Convey("It raises the envelope error string verbatim", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldEqual, "model overloaded")
			})
		})

		Convey("When ollama fields are given", func() {
			_, err := node.Run(context.Background(), Input{
				"systemMessage": "s",
				"userMessage":   "u",
				"llmType":       "ollama",
				"model":         "llama3",
				"baseUrl":       "11434",
			})

			Convey("They pass through to the raw config untouched", func() {
				So(err, ShouldBeNil)
				So(endpoint.lastReq.Config.LLMType, ShouldEqual, "ollama")
				// 归一化是服务端的事，节点不做 URL 改写
				So(endpoint.lastReq.Config.BaseURL, ShouldEqual, "11434")
			})
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given the node registry", t, func() {
		Convey("The chat node type is registered at init", func() {
			node, err := New(TypeChat, Options{Endpoint: "http://127.0.0.1:1/llm"})
			So(err, ShouldBeNil)
			So(node.Type(), ShouldEqual, TypeChat)
		})

		Convey("An unknown node type is rejected", func() {
			_, err := New("vision", Options{})
			So(err, ShouldNotBeNil)
		})

		Convey("Types lists registered node types", func() {
			So(Types(), ShouldContain, TypeChat)
		})
	})
}
