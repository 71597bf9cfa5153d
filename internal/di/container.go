package di

import (
	"fmt"
	"io"
	"strings"

	"nexaplan/internal/adapter/tool"
	"nexaplan/internal/application/port/input"
	"nexaplan/internal/application/port/output"
	"nexaplan/internal/application/service"
	"nexaplan/internal/infrastructure/env"
	"nexaplan/internal/infrastructure/llm/ollama"
	"nexaplan/internal/infrastructure/llm/openaicompat"
	"nexaplan/internal/infrastructure/logger"
	"nexaplan/internal/infrastructure/progress"
	"nexaplan/internal/infrastructure/prompts"
	"nexaplan/internal/infrastructure/search/browser"
	"nexaplan/internal/infrastructure/search/ddglite"
	"nexaplan/internal/infrastructure/search/langchain"
	"nexaplan/internal/infrastructure/store/sqlite"
	"nexaplan/internal/infrastructure/web"
	"nexaplan/internal/usecase/agent"
	"nexaplan/internal/usecase/pipeline"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	SearchDDGLite   = "ddg-lite"
	SearchLangchain = "langchain"
	SearchBrowser   = "browser"
)

type Container struct {
	Logger   output.LoggerPort
	LLM      output.LLMPort
	Search   output.SearchPort
	Tools    *service.ToolRegistryImpl
	Store    output.RunStore
	Hub      *web.Hub
	Agent    input.AgentExecutor
	Pipeline input.PipelineRunner

	closers []func()
}

type Options struct {
	// LogName is part of the log file name.
	LogName string
	// LogConsole receives a readable copy of the log. Nil keeps the log in
	// the file only.
	LogConsole io.Writer
	// Progress receives run events in addition to the websocket hub.
	Progress output.ProgressPort
	// WithHub creates the websocket hub used by the web server.
	WithHub bool
}

func NewContainer(cfg output.ConfigPort, opts Options) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Options{
		Dir:     cfg.Get(env.KeyLogDir),
		Name:    opts.LogName,
		Level:   cfg.Get(env.KeyLogLevel),
		Console: opts.LogConsole,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c := &Container{Logger: log}
	c.closers = append(c.closers, func() { log.Close() })

	if err := c.build(cfg, opts); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(cfg output.ConfigPort, opts Options) error {
	llm, err := newLLM(cfg, c.Logger)
	if err != nil {
		return err
	}
	c.LLM = llm

	search, err := c.newSearch(cfg)
	if err != nil {
		return err
	}
	c.Search = search

	c.Tools = service.NewToolRegistry()
	c.Tools.Register(tool.NewSearchTool(search, c.Logger))

	if cfg.GetBool(env.KeyStoreEnabled, true) {
		store, err := sqlite.New(cfg.Get(env.KeyStorePath))
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		c.Store = store
		c.closers = append(c.closers, func() { store.Close() })
	}

	sinks := progress.Multi{opts.Progress}
	if opts.WithHub {
		c.Hub = web.NewHub(c.Logger)
		sinks = append(sinks, c.Hub)
	}

	crew, err := prompts.LoadCrew(cfg.Get(env.KeyRolesFile))
	if err != nil {
		return fmt.Errorf("failed to load crew: %w", err)
	}

	temperature := float32(cfg.GetFloat(env.KeyLLMTemperature, 0.1))
	c.Agent = agent.New(llm, c.Tools, c.Logger, sinks, temperature)
	c.Pipeline = pipeline.New(c.Agent, crew, c.Logger, sinks, c.Store)

	c.Logger.Info("Container ready",
		"llmProvider", cfg.Get(env.KeyLLMProvider),
		"model", cfg.Get(env.KeyLLMModel),
		"searchProvider", cfg.Get(env.KeySearchProvider),
		"store", c.Store != nil,
		"roles", len(crew.Roles))
	return nil
}

func newLLM(cfg output.ConfigPort, log output.LoggerPort) (output.LLMPort, error) {
	timeout := cfg.GetDuration(env.KeyLLMTimeout, openaicompat.DefaultTimeout)

	switch provider := strings.ToLower(cfg.Get(env.KeyLLMProvider)); provider {
	case ProviderOpenAI, "":
		return openaicompat.NewAdapter(openaicompat.Config{
			APIKey:  cfg.Get(env.KeyLLMAPIKey),
			Model:   cfg.Get(env.KeyLLMModel),
			BaseURL: cfg.Get(env.KeyLLMBaseURL),
			Timeout: timeout,
			Logger:  log,
		}), nil
	case ProviderOllama:
		adapter, err := ollama.NewAdapter(ollama.Config{
			ServerURL: cfg.Get(env.KeyOllamaURL),
			Model:     cfg.Get(env.KeyLLMModel),
			APIKey:    cfg.Get(env.KeyLLMAPIKey),
			Timeout:   timeout,
			Logger:    log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return adapter, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

func (c *Container) newSearch(cfg output.ConfigPort) (output.SearchPort, error) {
	maxResults := cfg.GetInt(env.KeySearchMaxResults, ddglite.DefaultMaxResults)
	timeout := cfg.GetDuration(env.KeySearchTimeout, 0)

	switch provider := strings.ToLower(cfg.Get(env.KeySearchProvider)); provider {
	case SearchDDGLite, "":
		return ddglite.New(ddglite.Config{
			MaxResults: maxResults,
			Timeout:    timeout,
			Logger:     c.Logger,
		}), nil
	case SearchLangchain:
		client, err := langchain.New(maxResults, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create search client: %w", err)
		}
		return client, nil
	case SearchBrowser:
		bcfg := browser.DefaultConfig()
		bcfg.MaxResults = maxResults
		if timeout > 0 {
			bcfg.Timeout = timeout
		}
		bcfg.Logger = c.Logger
		client := browser.New(bcfg)
		c.closers = append(c.closers, client.Close)
		return client, nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", provider)
	}
}

// Close releases resources in reverse order of creation. The logger goes
// last.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
