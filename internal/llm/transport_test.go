package llm

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerTransport_SetsHeaders(t *testing.T) {
	tokenSrv, _ := newTokenServer(t, 3600)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "sub-key", r.Header.Get(subscriptionKeyHeader))
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	client := &http.Client{Transport: &BearerTransport{Tokens: testTokenSource(tokenSrv.URL), SubscriptionKey: "sub-key"}}
	resp, err := client.Get(api.URL)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBearerTransport_RetriesOnceOn401(t *testing.T) {
	tokenSrv, tokenHits := newTokenServer(t, 3600)
	var calls int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"q":1}`, string(body))
		if atomic.AddInt32(&calls, 1) == 1 {
			assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer token-2", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	client := &http.Client{Transport: &BearerTransport{Tokens: testTokenSource(tokenSrv.URL)}}
	resp, err := client.Post(api.URL, "application/json", strings.NewReader(`{"q":1}`))
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
	require.EqualValues(t, 2, atomic.LoadInt32(tokenHits))
}

func TestBearerTransport_GivesUpAfterSecond401(t *testing.T) {
	tokenSrv, _ := newTokenServer(t, 3600)
	var calls int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer api.Close()

	client := &http.Client{Transport: &BearerTransport{Tokens: testTokenSource(tokenSrv.URL)}}
	resp, err := client.Get(api.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestBearerTransport_SubscriptionKeyOnly(t *testing.T) {
	var calls int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer api.Close()

	client := &http.Client{Transport: &BearerTransport{SubscriptionKey: "k"}}
	resp, err := client.Get(api.URL)
	require.NoError(t, err)
	resp.Body.Close()
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
