// Package env loads .env files and serves configuration through viper.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"nexaplan/internal/application/port/output"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var _ output.ConfigPort = (*EnvService)(nil)

const (
	KeyAppEnv           = "APP_ENV"
	KeyLLMProvider      = "LLM_PROVIDER"
	KeyLLMBaseURL       = "LLM_BASE_URL"
	KeyOllamaURL        = "OLLAMA_URL"
	KeyLLMModel         = "LLM_MODEL"
	KeyLLMAPIKey        = "LLM_API_KEY"
	KeyLLMTemperature   = "LLM_TEMPERATURE"
	KeyLLMTimeout       = "LLM_TIMEOUT"
	KeySearchProvider   = "SEARCH_PROVIDER"
	KeySearchMaxResults = "SEARCH_MAX_RESULTS"
	KeySearchTimeout    = "SEARCH_TIMEOUT"
	KeyHTTPAddr         = "HTTP_ADDR"
	KeyHTTPJSONLog      = "HTTP_JSON_LOG"
	KeyStoreEnabled     = "STORE_ENABLED"
	KeyStorePath        = "STORE_PATH"
	KeyLogDir           = "LOG_DIR"
	KeyLogLevel         = "LOG_LEVEL"
	KeyRolesFile        = "ROLES_FILE"
)

var defaults = map[string]any{
	KeyAppEnv:           "dev",
	KeyLLMProvider:      "openai",
	KeyLLMBaseURL:       "http://127.0.0.1:11434/v1",
	KeyOllamaURL:        "http://127.0.0.1:11434",
	KeyLLMModel:         "llama3.2:3b",
	KeyLLMAPIKey:        "NA",
	KeyLLMTemperature:   0.1,
	KeyLLMTimeout:       "300s",
	KeySearchProvider:   "ddg-lite",
	KeySearchMaxResults: 5,
	KeySearchTimeout:    "15s",
	KeyHTTPAddr:         ":8501",
	KeyStoreEnabled:     true,
	KeyStorePath:        "data/nexaplan.db",
	KeyLogDir:           "log",
	KeyLogLevel:         "info",
}

type EnvService struct {
	v *viper.Viper
	// Loaded lists the env files that were read, for logging once a logger
	// exists.
	Loaded []string
}

// NewEnvService reads .env and then .env.<APP_ENV> from dir, the latter
// overriding the former. Missing files are skipped. Real environment
// variables win over .env but not over .env.<APP_ENV>.
func NewEnvService(dir string) (*EnvService, error) {
	s := &EnvService{v: viper.New()}

	base := dirJoin(dir, ".env")
	if err := godotenv.Load(base); err == nil {
		s.Loaded = append(s.Loaded, base)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", base, err)
	}

	appEnv := os.Getenv(KeyAppEnv)
	if appEnv == "" {
		appEnv = "dev"
	}
	envFile := dirJoin(dir, ".env."+appEnv)
	if err := godotenv.Overload(envFile); err == nil {
		s.Loaded = append(s.Loaded, envFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	for k, v := range defaults {
		s.v.SetDefault(k, v)
	}
	s.v.AutomaticEnv()

	return s, nil
}

func dirJoin(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}

// BindFlag lets a command-line flag override key when it is set.
func (e *EnvService) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: flag not defined", key)
	}
	return e.v.BindPFlag(key, flag)
}

func (e *EnvService) Get(key string) string {
	return e.v.GetString(key)
}

func (e *EnvService) MustGet(key string) string {
	val := e.v.GetString(key)
	if val == "" {
		panic(fmt.Sprintf("config %s is missing", key))
	}
	return val
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	if val := e.v.GetString(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	if !e.v.IsSet(key) {
		return defaultValue
	}
	parsed, err := cast.ToBoolE(e.v.Get(key))
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	if !e.v.IsSet(key) {
		return defaultValue
	}
	parsed, err := cast.ToIntE(e.v.Get(key))
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetFloat(key string, defaultValue float64) float64 {
	if !e.v.IsSet(key) {
		return defaultValue
	}
	parsed, err := cast.ToFloat64E(e.v.Get(key))
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	if !e.v.IsSet(key) {
		return defaultValue
	}
	parsed, err := cast.ToDurationE(e.v.Get(key))
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}
