package main

import (
	"fmt"
	"os"

	"nexaplan/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

var (
	envDir string
	config *env.EnvService
)

var rootCmd = &cobra.Command{
	Use:   "nexaplan",
	Short: "NexaPlan - AI event logistics planner",
	Long: `NexaPlan picks a venue for a business event in an Indian metro.
A scout checks travel conditions, an auditor shortlists venues and an
architect writes the final Markdown report, all on a local model.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := env.NewEnvService(envDir)
		if err != nil {
			return err
		}
		config = cfg
		return bindFlags(cmd)
	},
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", "", "directory holding .env files (default is the working directory)")
	rootCmd.PersistentFlags().String("model", "", "model name (LLM_MODEL)")
	rootCmd.PersistentFlags().String("llm-provider", "", "openai or ollama (LLM_PROVIDER)")
	rootCmd.PersistentFlags().String("search-provider", "", "ddg-lite, langchain or browser (SEARCH_PROVIDER)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (LOG_LEVEL)")
}

// flagKeys maps flags onto config keys. A flag only overrides the
// environment when it is set on the command line.
var flagKeys = map[string]string{
	"model":           env.KeyLLMModel,
	"llm-provider":    env.KeyLLMProvider,
	"search-provider": env.KeySearchProvider,
	"log-level":       env.KeyLogLevel,
	"addr":            env.KeyHTTPAddr,
}

func bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := config.BindFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}
