package redis

import (
	"context"
	"net/http"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/iho/feefines/internal/usecase"
)

// newTestRedisClient returns a client bound to an in-process server that
// lives for the duration of the test.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	return redislib.NewClient(&redislib.Options{Addr: mr.Addr()}), mr
}

func TestIdempotencyStore_ReserveNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	existing, reserved, err := store.Reserve(ctx, "key-1", "fp", time.Minute)
	if err != nil || !reserved || existing != nil {
		t.Fatalf("unexpected result: existing=%v reserved=%v err=%v", existing, reserved, err)
	}

	if !mr.Exists(store.prefix + "key-1") {
		t.Fatalf("expected pending record to be stored")
	}
	if ttl := mr.TTL(store.prefix + "key-1"); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %s", ttl)
	}
}

func TestIdempotencyStore_ReserveTakenKeyReturnsPending(t *testing.T) {
	client, _ := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.Reserve(ctx, "key-1", "fp", time.Minute); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}

	existing, reserved, err := store.Reserve(ctx, "key-1", "other", time.Minute)
	if err != nil {
		t.Fatalf("second reserve failed: %v", err)
	}
	if reserved || existing == nil || !existing.Pending || existing.Fingerprint != "fp" {
		t.Fatalf("expected pending record for fp, got reserved=%v existing=%+v", reserved, existing)
	}
}

func TestIdempotencyStore_CompleteThenReplay(t *testing.T) {
	client, _ := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.Reserve(ctx, "key-1", "fp", time.Minute); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	done := usecase.IdempotencyRecord{Fingerprint: "fp", Pending: true, StatusCode: http.StatusCreated, Body: []byte(`{"amount":"3.00"}`)}
	if err := store.Complete(ctx, "key-1", done, time.Minute); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	existing, reserved, err := store.Reserve(ctx, "key-1", "fp", time.Minute)
	if err != nil || reserved {
		t.Fatalf("expected stored record, got reserved=%v err=%v", reserved, err)
	}
	if existing.Pending || existing.StatusCode != http.StatusCreated || string(existing.Body) != `{"amount":"3.00"}` {
		t.Fatalf("unexpected record %+v", existing)
	}
}

func TestIdempotencyStore_Release(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.Reserve(ctx, "key-1", "fp", time.Minute); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if err := store.Release(ctx, "key-1"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if mr.Exists(store.prefix + "key-1") {
		t.Fatalf("expected key to be deleted")
	}

	if _, reserved, err := store.Reserve(ctx, "key-1", "fp", time.Minute); err != nil || !reserved {
		t.Fatalf("expected key to be reservable again, reserved=%v err=%v", reserved, err)
	}
}

func TestIdempotencyStore_ServerDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()
	mr.Close()

	store := NewIdempotencyStore(client)
	if _, _, err := store.Reserve(context.Background(), "key-1", "fp", time.Minute); err == nil {
		t.Fatalf("expected error when redis is unreachable")
	}
}
