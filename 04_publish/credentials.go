package publish

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"

	"video-maker-pipeline/logging"
	"video-maker-pipeline/types"
)

// CredentialProvider obtains an authorized token source for the YouTube API.
type CredentialProvider interface {
	ObtainCredential(ctx context.Context) (oauth2.TokenSource, error)
}

var scopes = []string{youtube.YoutubeUploadScope, youtube.YoutubeScope}

func oauthConfig(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint) *oauth2.Config {
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
}

// RefreshTokenProvider exchanges a stored refresh token for access tokens.
// It needs no user interaction, which suits scheduled runs.
type RefreshTokenProvider struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// Endpoint overrides the Google OAuth endpoint.
	Endpoint oauth2.Endpoint
}

// RefreshTokenFromEnv reads YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET and
// YOUTUBE_REFRESH_TOKEN.
func RefreshTokenFromEnv() *RefreshTokenProvider {
	return &RefreshTokenProvider{
		ClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		ClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		RefreshToken: os.Getenv("YOUTUBE_REFRESH_TOKEN"),
	}
}

func (p *RefreshTokenProvider) ObtainCredential(ctx context.Context) (oauth2.TokenSource, error) {
	if p.ClientID == "" || p.ClientSecret == "" || p.RefreshToken == "" {
		return nil, types.Collaborator("youtube auth", errors.New("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, or YOUTUBE_REFRESH_TOKEN not set"))
	}

	conf := oauthConfig(p.ClientID, p.ClientSecret, "", p.Endpoint)
	token := &oauth2.Token{
		RefreshToken: p.RefreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	ts := conf.TokenSource(ctx, token)
	if _, err := ts.Token(); err != nil {
		return nil, types.Collaborator("youtube auth", fmt.Errorf("refresh token: %w", err))
	}
	return ts, nil
}

// ConsentProvider runs the interactive consent flow: it serves the OAuth
// callback locally, shows the consent URL and waits, at most Timeout, for
// the user to approve.
type ConsentProvider struct {
	ClientID     string
	ClientSecret string
	Port         int
	Timeout      time.Duration

	// OnAuthURL receives the consent URL to show the user.
	OnAuthURL func(authURL string)
	Endpoint  oauth2.Endpoint
	Logger    *zap.Logger
}

// ConsentFromEnv reads YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET.
func ConsentFromEnv(port int, timeout time.Duration, logger *zap.Logger) *ConsentProvider {
	return &ConsentProvider{
		ClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		ClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		Port:         port,
		Timeout:      timeout,
		Logger:       logger,
	}
}

func (p *ConsentProvider) ObtainCredential(ctx context.Context) (oauth2.TokenSource, error) {
	if p.ClientID == "" || p.ClientSecret == "" {
		return nil, types.Collaborator("youtube auth", errors.New("YOUTUBE_CLIENT_ID or YOUTUBE_CLIENT_SECRET not set"))
	}
	logger := logging.OrNop(p.Logger)

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	server := newCallbackServer(p.Port, state)
	if err := server.start(); err != nil {
		return nil, types.Collaborator("youtube auth", err)
	}
	defer server.stop()

	conf := oauthConfig(p.ClientID, p.ClientSecret, server.redirectURI(), p.Endpoint)
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	logger.Info("waiting for user consent", zap.String("url", authURL), zap.String("redirect_uri", server.redirectURI()))
	if p.OnAuthURL != nil {
		p.OnAuthURL(authURL)
	}

	waitCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	code, err := server.waitForCode(waitCtx)
	if err != nil {
		return nil, types.Collaborator("youtube auth", err)
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, types.Collaborator("youtube auth", fmt.Errorf("exchange code: %w", err))
	}
	logger.Info("consent granted")
	return conf.TokenSource(ctx, token), nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
