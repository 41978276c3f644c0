package upstream

import (
	"context"
	"testing"

	"github.com/shashank35i/DentraOS-sub001/platform/apperr"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*RedisTokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisTokenStore(rdb, 0), mr
}

func TestTokenStoreReadsCanonicalKey(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set("auth:access_token", "tok-canonical")

	token, err := store.AccessToken(context.Background())
	if err != nil || token != "tok-canonical" {
		t.Fatalf("expected canonical token, got %q (%v)", token, err)
	}
}

func TestTokenStoreMigratesLegacyKeyOnce(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set("auth:token", "tok-legacy")

	token, err := store.AccessToken(context.Background())
	if err != nil || token != "tok-legacy" {
		t.Fatalf("expected legacy token on first read, got %q (%v)", token, err)
	}

	if got, _ := mr.Get("auth:access_token"); got != "tok-legacy" {
		t.Fatalf("expected migration to canonical key, got %q", got)
	}
	if mr.Exists("auth:token") {
		t.Fatal("expected legacy key to be removed after migration")
	}
}

func TestTokenStoreCanonicalKeyWinsOverLegacy(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set("auth:access_token", "tok-canonical")
	mr.Set("auth:token", "tok-legacy")

	token, err := store.AccessToken(context.Background())
	if err != nil || token != "tok-canonical" {
		t.Fatalf("expected canonical token to win, got %q (%v)", token, err)
	}
}

func TestTokenStoreMissingTokenIsUnauthorized(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.AccessToken(context.Background()); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestTokenStoreSetAndClear(t *testing.T) {
	store, mr := newTestStore(t)

	if err := store.SetAccessToken(context.Background(), "tok-new"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got, _ := mr.Get("auth:access_token"); got != "tok-new" {
		t.Fatalf("expected stored token, got %q", got)
	}

	if err := store.ClearAccessToken(context.Background()); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if mr.Exists("auth:access_token") {
		t.Fatal("expected canonical key to be cleared")
	}
}
