package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashank35i/DentraOS-sub001/platform/apperr"
	"github.com/shashank35i/DentraOS-sub001/platform/httpkit"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, Tokens: tokens})
}

func TestClientInjectsBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}, StaticTokenSource("tok-123"))

	var out map[string]interface{}
	if err := client.Get(context.Background(), "/clinic-setup", &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestClientPrefersEnvelopeMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"timezone is not recognized"}`))
	}, StaticTokenSource("tok"))

	err := client.Put(context.Background(), "/clinic-setup", map[string]string{}, nil)
	typed, ok := err.(*apperr.Error)
	if !ok || typed.Message != "timezone is not recognized" {
		t.Fatalf("expected envelope message, got %v", err)
	}
	if typed.Kind != apperr.KindBadRequest {
		t.Fatalf("expected bad request kind, got %v", typed.Kind)
	}
}

func TestClientFallsBackToErrorFieldThenGeneric(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"already completed"}`))
	}, StaticTokenSource("tok"))

	err := client.Post(context.Background(), "/appointments/a1/complete", nil, nil)
	if typed, ok := err.(*apperr.Error); !ok || typed.Message != "already completed" {
		t.Fatalf("expected error field to surface, got %v", err)
	}

	client = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`not json`))
	}, StaticTokenSource("tok"))

	err = client.Get(context.Background(), "/users?role=DOCTOR", nil)
	typed, ok := err.(*apperr.Error)
	if !ok || typed.Message != "request failed (status 502)" {
		t.Fatalf("expected generic message with status, got %v", err)
	}
	if typed.Kind != apperr.KindUnavailable {
		t.Fatalf("expected unavailable kind for 5xx, got %v", typed.Kind)
	}
}

func TestClientMapsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"appointment not found"}`))
	}, StaticTokenSource("tok"))

	err := client.Get(context.Background(), "/appointments/missing", nil)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}

func TestContextTokenSourceForwardsCallerToken(t *testing.T) {
	source := ContextTokenSource{Fallback: StaticTokenSource("service-token")}

	ctx := httpkit.ContextWithBearerToken(context.Background(), "caller-token")
	token, err := source.AccessToken(ctx)
	if err != nil || token != "caller-token" {
		t.Fatalf("expected caller token, got %q (%v)", token, err)
	}

	token, err = source.AccessToken(context.Background())
	if err != nil || token != "service-token" {
		t.Fatalf("expected fallback token, got %q (%v)", token, err)
	}

	bare := ContextTokenSource{}
	if _, err := bare.AccessToken(context.Background()); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized without any token, got %v", err)
	}
}
