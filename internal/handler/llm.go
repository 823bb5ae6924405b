package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"llmbridge/internal/llm"
	"llmbridge/internal/model"
)

// 缺参时的固定错误文案，前端按字符串匹配，不要改动
const msgMissingParams = "Missing required parameters"

// 底层错误没有文案时的兜底
const msgGenericFailure = "LLM invocation failed"

// LLMHandler 模型调用端点处理器
type LLMHandler struct {
	invoker *llm.Invoker
}

// NewLLMHandler 创建处理器
func NewLLMHandler(invoker *llm.Invoker) *LLMHandler {
	return &LLMHandler{invoker: invoker}
}

// Invoke 对话调用接口
// @Summary      调用 LLM 生成回复
// @Accept       json
// @Produce      json
// @Param        request  body      model.InvokeRequest  true  "调用请求"
// @Success      200      {object}  model.Envelope
// @Failure      400      {object}  model.Envelope
// @Failure      500      {object}  model.Envelope
// @Router       /api/v1/llm/invoke [post]
func (h *LLMHandler) Invoke(c *gin.Context) {
	var req model.InvokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Fail("Invalid request body"))
		return
	}

	if strings.TrimSpace(req.SystemMessage) == "" ||
		strings.TrimSpace(req.UserMessage) == "" ||
		req.Config == nil {
		c.JSON(http.StatusBadRequest, model.Fail(msgMissingParams))
		return
	}

	cfg, err := llm.Normalize(req.Config)
	if err != nil {
		h.writeError(c, err)
		return
	}

	result, err := h.invoker.Invoke(c.Request.Context(), llm.Exchange{
		System: req.SystemMessage,
		User:   req.UserMessage,
	}, cfg)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.OK(result.Text, result.Usage))
}

// Test 连通性测试接口
// 只验证端点和凭证可达，跳过 usage 提取和采样参数细节
// @Summary      测试后端连通性
// @Accept       json
// @Produce      json
// @Param        request  body      model.TestRequest  true  "测试请求"
// @Success      200      {object}  model.Envelope
// @Failure      400      {object}  model.Envelope
// @Failure      500      {object}  model.Envelope
// @Router       /api/v1/llm/test [post]
func (h *LLMHandler) Test(c *gin.Context) {
	var req model.TestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Fail("Invalid request body"))
		return
	}

	if strings.TrimSpace(req.LLMType) == "" ||
		strings.TrimSpace(req.BaseURL) == "" ||
		strings.TrimSpace(req.Model) == "" {
		c.JSON(http.StatusBadRequest, model.Fail(msgMissingParams))
		return
	}

	cfg, err := llm.Normalize(&llm.RawConfig{
		LLMType: req.LLMType,
		Model:   req.Model,
		BaseURL: req.BaseURL,
		APIKey:  req.APIKey,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	text, err := h.invoker.Test(c.Request.Context(), cfg)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Envelope{
		Success:  true,
		Message:  "Connection successful",
		Response: text,
	})
}

// writeError 把错误分类映射到固定 envelope
// ValidationError -> 400，其余（Provider/空响应）-> 500；裸异常不跨 HTTP 边界
// ProviderError 透传底层错误文案，前端要看到模型侧的原始信息
func (h *LLMHandler) writeError(c *gin.Context, err error) {
	msg := err.Error()

	var ve *llm.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, model.Fail(msg))
		return
	}

	var pe *llm.ProviderError
	if errors.As(err, &pe) && pe.Unwrap() != nil {
		msg = pe.Unwrap().Error()
	}
	if strings.TrimSpace(msg) == "" {
		msg = msgGenericFailure
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("llm request failed")
	c.JSON(http.StatusInternalServerError, model.Fail(msg))
}
