package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

func Test_bodyHash(t *testing.T) {
	data := []byte("hello world")
	got := bodyHash(data)

	sum := sha256.Sum256(data)
	want := hex.EncodeToString(sum[:])
	if got != want {
		t.Fatalf("bodyHash mismatch: got %s want %s", got, want)
	}
}

func Test_nowUTC(t *testing.T) {
	u := nowUTC()
	if u.Location() != time.UTC {
		t.Fatalf("nowUTC must be UTC, got %v", u.Location())
	}
	if d := time.Since(u); d < 0 || d > 2*time.Second {
		t.Fatalf("nowUTC too far from now: %v", d)
	}
}

func Test_buildKey(t *testing.T) {
	actor := strings.Repeat("b", 32)
	reqID := strings.Repeat("a", 32)
	k := buildKey("POST", "/loans", actor, reqID)
	want := "idemp:post:/loans:" + actor + ":" + reqID
	if k != want {
		t.Fatalf("buildKey = %q, want %q", k, want)
	}
}

func Test_validReqID(t *testing.T) {
	cases := []struct {
		id string
		ok bool
	}{
		{strings.Repeat("a", 32), true},
		{"A1B2C3D4E5F6A7B8C9D0E1F2A3B4C5D6", true}, // case-insensitive hex
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{strings.Repeat("a", 31), false},
		{strings.Repeat("g", 32), false},
		{"", false},
		{"not-an-id", false},
	}
	for _, tc := range cases {
		if got := validReqID(tc.id); got != tc.ok {
			t.Fatalf("validReqID(%q) = %v, want %v", tc.id, got, tc.ok)
		}
	}
}

func Test_parseRequestAt(t *testing.T) {
	got, err := parseRequestAt(time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if got.Location() != time.UTC {
		t.Fatalf("rfc3339 not normalized to UTC")
	}

	got, err = parseRequestAt("1735689600") // epoch seconds
	if err != nil || got.Unix() != 1735689600 {
		t.Fatalf("epoch s: %v %v", got, err)
	}

	got, err = parseRequestAt("1735689600123") // epoch milliseconds
	if err != nil || got.UnixMilli() != 1735689600123 {
		t.Fatalf("epoch ms: %v %v", got, err)
	}

	if _, err := parseRequestAt(""); err == nil {
		t.Fatal("empty value must fail")
	}
	if _, err := parseRequestAt("2025-01-01 10:00:00"); err == nil {
		t.Fatal("naive timestamp must fail")
	}
}

func Test_provisionalSetAndLoad(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	ctx := context.Background()

	entry := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte("x")), RequestID: strings.Repeat("a", 32)}
	ok, err := provisionalSet(ctx, rdb, "idemp:test", entry)
	if err != nil || !ok {
		t.Fatalf("first setnx: ok=%v err=%v", ok, err)
	}

	// Second SetNX on the same key must lose.
	ok, err = provisionalSet(ctx, rdb, "idemp:test", entry)
	if err != nil || ok {
		t.Fatalf("second setnx: ok=%v err=%v", ok, err)
	}

	got, err := loadEntry(ctx, rdb, "idemp:test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.InProgress || got.RequestID != entry.RequestID {
		t.Fatalf("loaded entry mismatch: %+v", got)
	}
}

func Test_saveFinalOverwritesLock(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	ctx := context.Background()

	if _, err := provisionalSet(ctx, rdb, "idemp:test", idempEntry{InProgress: true}); err != nil {
		t.Fatalf("setnx: %v", err)
	}
	final := idempEntry{InProgress: false, Code: 201, Body: []byte(`{"ok":true}`)}
	if err := saveFinal(ctx, rdb, "idemp:test", final, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := loadEntry(ctx, rdb, "idemp:test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.InProgress || got.Code != 201 || string(got.Body) != `{"ok":true}` {
		t.Fatalf("final entry mismatch: %+v", got)
	}

	// TTL moved from the provisional lock to the configured retention.
	if ttl := mr.TTL("idemp:test"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}
}
