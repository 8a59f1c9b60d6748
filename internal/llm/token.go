package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Conversly/crm-assistant/internal/utils"
)

const (
	azureTokenURLFormat = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
	defaultAzureScope   = "https://cognitiveservices.azure.com/.default"

	// tokens are refreshed this long before they expire
	tokenLeeway = 2 * time.Minute
)

// TokenSource caches a client-credentials bearer token until shortly before
// expiry. Safe for concurrent use.
type TokenSource struct {
	cfg    *clientcredentials.Config
	leeway time.Duration
	now    func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

func NewAzureADTokenSource(tenantID, clientID, clientSecret, scope string) *TokenSource {
	if scope == "" {
		scope = defaultAzureScope
	}
	return NewTokenSource(&clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     fmt.Sprintf(azureTokenURLFormat, tenantID),
		Scopes:       []string{scope},
		AuthStyle:    oauth2.AuthStyleInParams,
	})
}

func NewTokenSource(cfg *clientcredentials.Config) *TokenSource {
	return &TokenSource{cfg: cfg, leeway: tokenLeeway, now: time.Now}
}

// Token returns a cached access token or fetches a fresh one.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil && s.fresh(s.token) {
		return s.token.AccessToken, nil
	}

	tok, err := s.cfg.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch access token: %w", err)
	}
	s.token = tok
	utils.Zlog.Debug("Fetched access token", zap.Time("expiry", tok.Expiry))
	return tok.AccessToken, nil
}

// Invalidate drops the cached token so the next call fetches a new one.
func (s *TokenSource) Invalidate() {
	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()
}

func (s *TokenSource) fresh(tok *oauth2.Token) bool {
	if tok.AccessToken == "" {
		return false
	}
	if tok.Expiry.IsZero() {
		return true
	}
	return s.now().Add(s.leeway).Before(tok.Expiry)
}
