package publish

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"video-maker-pipeline/config"
)

// New builds the stage from configuration. upload.auth selects between the
// stored refresh token and the interactive consent flow.
func New(cfg *config.Config, logger *zap.Logger) (*Stage, error) {
	creds, err := NewCredentialProvider(cfg.Upload, logger)
	if err != nil {
		return nil, err
	}
	publisher := &YouTubePublisher{
		MadeForKids:       cfg.Upload.MadeForKids,
		NotifySubscribers: cfg.Upload.NotifySubscribers,
	}
	settings := Settings{
		CategoryID: cfg.Upload.CategoryID,
		Privacy:    cfg.Upload.Visibility,
		Language:   cfg.Upload.DefaultLanguage,
		LogsDir:    cfg.Paths.Logs,
	}
	return NewStage(creds, publisher, settings, logger), nil
}

func NewCredentialProvider(cfg config.UploadConfig, logger *zap.Logger) (CredentialProvider, error) {
	switch cfg.Auth {
	case "", "refresh_token":
		return RefreshTokenFromEnv(), nil
	case "consent":
		p := ConsentFromEnv(cfg.CallbackPort, time.Duration(cfg.ConsentTimeoutSec)*time.Second, logger)
		p.OnAuthURL = func(authURL string) {
			fmt.Printf("Please give your consent: %s\n", authURL)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown upload auth %q", cfg.Auth)
	}
}
