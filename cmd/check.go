package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"llmbridge/internal/llm"
	"llmbridge/internal/llm/component"
	"llmbridge/internal/workflow"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test backend connectivity",
	Long: `Send a single trivial message to the configured backend and report
whether the endpoint and credentials are reachable. Uses the same
30-second-bounded path as the HTTP test endpoint.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	flags := checkCmd.Flags()
	flags.String("llm-type", "", "LLM backend (openai/ollama), overrides config")
	flags.String("model", "", "model name, overrides config")
	flags.String("base-url", "", "backend base URL, overrides config")
	flags.String("api-key", "", "API key, overrides config")
	flags.Bool("via-server", false,
		"route the check through a running server's invoke endpoint (workflow.endpoint)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	llmCfg := GetConfig().LLM

	// 命令行显式传入的参数优先于配置文件
	flagOr := func(name, fallback string) string {
		if v, _ := cmd.Flags().GetString(name); v != "" {
			return v
		}
		return fallback
	}

	// 通过运行中的服务走一遍完整链路：对话节点 -> 调用端点 -> 后端
	if via, _ := cmd.Flags().GetBool("via-server"); via {
		ctx, cancel := context.WithTimeout(context.Background(), llm.TestTimeout)
		defer cancel()

		endpoint := GetConfig().Workflow.Endpoint
		log.Info().Str("endpoint", endpoint).Msg("testing connectivity via invoke endpoint")

		text, err := checkViaEndpoint(ctx, endpoint, workflow.Input{
			"llmType": flagOr("llm-type", llmCfg.LLMType),
			"model":   flagOr("model", llmCfg.Model),
			"baseUrl": flagOr("base-url", llmCfg.BaseURL),
			"apiKey":  flagOr("api-key", llmCfg.APIKey),
		})
		if err != nil {
			return fmt.Errorf("connectivity test failed: %w", err)
		}
		fmt.Printf("Connection successful: %s\n", text)
		return nil
	}

	cfg, err := llm.Normalize(&llm.RawConfig{
		LLMType: flagOr("llm-type", llmCfg.LLMType),
		Model:   flagOr("model", llmCfg.Model),
		BaseURL: flagOr("base-url", llmCfg.BaseURL),
		APIKey:  flagOr("api-key", llmCfg.APIKey),
	})
	if err != nil {
		return fmt.Errorf("invalid backend config: %w", err)
	}

	log.Info().
		Str("provider", string(cfg.Kind)).
		Str("model", cfg.Model).
		Str("base_url", cfg.BaseURL).
		Msg("testing backend connectivity")

	invoker := llm.NewInvoker(component.NewChatModel)
	text, err := invoker.Test(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("connectivity test failed: %w", err)
	}

	fmt.Printf("Connection successful: %s\n", text)
	return nil
}

// checkViaEndpoint 用对话节点对调用端点发起一次检查请求
// 与托管引擎实例化节点的方式一致，顺带验证了节点注册表
func checkViaEndpoint(ctx context.Context, endpoint string, in workflow.Input) (string, error) {
	node, err := workflow.New(workflow.TypeChat, workflow.Options{Endpoint: endpoint})
	if err != nil {
		return "", err
	}

	in["systemMessage"] = "You are a connectivity checker."
	in["userMessage"] = "Hi, please reply with a short greeting."

	out, err := node.Run(ctx, in)
	if err != nil {
		return "", err
	}
	text, _ := out["response"].(string)
	return text, nil
}
