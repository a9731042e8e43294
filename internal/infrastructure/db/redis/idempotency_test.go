package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/peerlend/loan-tracker/internal/core/ports"
)

func newTestStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: s.Addr()})
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, time.Hour), s
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected ping error")
	}
}

func TestIdempotencyStore_ReserveOnce(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "idemp:post:/loans:k1", "hash")
	if err != nil || !ok {
		t.Fatalf("first reserve: ok=%v err=%v", ok, err)
	}
	ok, err = store.Reserve(ctx, "idemp:post:/loans:k1", "hash")
	if err != nil || ok {
		t.Fatalf("second reserve: ok=%v err=%v", ok, err)
	}

	cur, err := store.Load(ctx, "idemp:post:/loans:k1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cur.InProgress || cur.BodySHA256 != "hash" {
		t.Errorf("unexpected entry: %+v", cur)
	}
}

func TestIdempotencyStore_SaveAndLoad(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	key := "idemp:post:/users:k2"

	if _, err := store.Reserve(ctx, key, "h"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	err := store.Save(ctx, key, ports.StoredResponse{
		InProgress:  true,
		BodySHA256:  "h",
		StatusCode:  201,
		Body:        []byte(`{"id":"x"}`),
		ContentType: "application/json",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.InProgress || got.StatusCode != 201 || string(got.Body) != `{"id":"x"}` {
		t.Errorf("unexpected entry: %+v", got)
	}
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Errorf("expected 1h ttl, got %v", ttl)
	}
}

func TestIdempotencyStore_Release(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, _ = store.Reserve(ctx, "k", "h")
	if err := store.Release(ctx, "k"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := store.Load(ctx, "k"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
	ok, err := store.Reserve(ctx, "k", "h")
	if err != nil || !ok {
		t.Errorf("reserve after release: ok=%v err=%v", ok, err)
	}
}
