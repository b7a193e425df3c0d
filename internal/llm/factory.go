package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/amishk599/reqwiz/internal/config"
)

// New constructs the backend selected by cfg.Kind. Construction is eager:
// the remote credential is resolved and the local model is loaded here.
func New(ctx context.Context, cfg config.BackendConfig, logger *slog.Logger) (Backend, error) {
	switch cfg.Kind {
	case config.BackendRemote:
		key, err := config.ResolveAPIKey(config.BackendRemote, cfg.Remote.APIKey, cfg.Remote.APIKeyEnv)
		if err != nil {
			return nil, err
		}
		client := &http.Client{Timeout: cfg.Remote.Timeout}
		return NewRemoteBackend(cfg.Remote.BaseURL, key, cfg.Remote.Model, client, logger), nil
	case config.BackendLocal:
		client := &http.Client{Timeout: cfg.Local.Timeout}
		return NewLocalBackend(ctx, cfg.Local.BaseURL, cfg.Local.Model, cfg.Local.KeepAlive, client, logger)
	default:
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Kind)
	}
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
