package llm

import (
	"fmt"
	"io"
	"net/http"

	"github.com/Conversly/crm-assistant/internal/utils"
)

const subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

// BearerTransport adds the Azure AD bearer token and the APIM subscription key
// to outgoing requests. A 401 invalidates the token and retries once.
type BearerTransport struct {
	Base            http.RoundTripper
	Tokens          *TokenSource
	SubscriptionKey string
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.send(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || t.Tokens == nil {
		return resp, err
	}
	// body already consumed and cannot be replayed
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	t.Tokens.Invalidate()
	utils.Zlog.Warn("Upstream returned 401, retrying with a fresh token")

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		retry.Body = body
	}
	return t.send(retry)
}

func (t *BearerTransport) send(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if t.Tokens != nil {
		tok, err := t.Tokens.Token(req.Context())
		if err != nil {
			return nil, err
		}
		out.Header.Set("Authorization", "Bearer "+tok)
	}
	if t.SubscriptionKey != "" {
		out.Header.Set(subscriptionKeyHeader, t.SubscriptionKey)
	}
	return t.base().RoundTrip(out)
}

func (t *BearerTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
