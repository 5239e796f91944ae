// Command server runs the gemini proxy: an OpenAI-compatible chat
// completion endpoint backed by Gemini generateContent.
//
// Configuration is read from a YAML file (--config, PROXY_CONFIG,
// ./config.yaml or /etc/gemini-proxy/config.yaml) and environment
// variables:
//
//	GEMINI_KEY            - Gemini API key
//	PORT                  - Listen port (default: 10000)
//	PROXY_UPSTREAM_URL    - Gemini REST root (default: public v1 endpoint)
//	PROXY_DEFAULT_MODEL   - Model used when a request names none (default: gemini-pro)
//	PROXY_AUTH_TYPE       - Inbound auth: "none" or "apikey" (default: none)
//	PROXY_API_KEYS        - JSON array of inbound API keys
//	PROXY_METRICS_ENABLED - Expose Prometheus metrics (default: false)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rhuss/gemini-proxy/pkg/auth"
	"github.com/rhuss/gemini-proxy/pkg/auth/apikey"
	"github.com/rhuss/gemini-proxy/pkg/auth/noop"
	"github.com/rhuss/gemini-proxy/pkg/config"
	"github.com/rhuss/gemini-proxy/pkg/debug"
	"github.com/rhuss/gemini-proxy/pkg/engine"
	"github.com/rhuss/gemini-proxy/pkg/provider/gemini"
	transporthttp "github.com/rhuss/gemini-proxy/pkg/transport/http"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "gemini-proxy",
		Short: "OpenAI-compatible chat completion proxy for Gemini",
		Long: `Serves GET /, GET /v1/models and POST /v1/chat/completions and
forwards the last user message of each chat completion to the Gemini
generateContent API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := run(ctx, configPath); err != nil {
				slog.Error("server failed", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")

	return cmd
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logCfg := cfg.Observability.Logging
	debug.Init(logCfg.Debug, logCfg.Level, logCfg.Format)

	if cfg.Upstream.APIKey == "" {
		slog.Warn("no Gemini API key configured; upstream calls will be rejected",
			"env", config.EnvUpstreamKey)
	}

	prov, err := gemini.New(gemini.Config{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	defer prov.Close()

	eng, err := engine.New(prov, engine.Config{
		DefaultModel: cfg.Engine.DefaultModel,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	srv := transporthttp.NewServer(eng, eng, serverOptions(cfg)...)

	slog.Info("gemini proxy configured",
		"port", cfg.Server.Port,
		"upstream", cfg.Upstream.BaseURL,
		"default_model", cfg.Engine.DefaultModel,
		"auth", cfg.Auth.Type,
		"metrics", cfg.Observability.Metrics.Enabled,
	)

	return srv.Run(ctx)
}

// serverOptions maps the loaded configuration onto server options.
func serverOptions(cfg *config.Config) []transporthttp.ServerOption {
	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(":" + strconv.Itoa(cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithProtect(buildAuth(cfg.Auth)),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts, transporthttp.WithMetrics(cfg.Observability.Metrics.Path))
	}
	return opts
}

// buildAuth returns the middleware guarding the /v1 routes.
func buildAuth(cfg config.AuthConfig) func(http.Handler) http.Handler {
	chain := &auth.Chain{}

	switch cfg.Type {
	case "apikey":
		keys := make([]apikey.Key, 0, len(cfg.APIKeys))
		for i, k := range cfg.APIKeys {
			subject := k.Subject
			if subject == "" {
				subject = fmt.Sprintf("key-%d", i)
			}
			keys = append(keys, apikey.Key{
				Value:    k.Key,
				Identity: auth.Identity{Subject: subject},
			})
		}
		store := apikey.New(keys)
		chain.Authenticators = append(chain.Authenticators, store)
		slog.Info("authentication enabled", "type", "apikey", "keys", store.Len())
	default:
		chain.Authenticators = append(chain.Authenticators, noop.Authenticator{})
	}

	return auth.Middleware(chain)
}
