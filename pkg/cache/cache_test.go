package cache

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestFileCacheSetGet(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "absent"); err != nil || ok {
		t.Fatalf("Get(absent) = ok=%v err=%v, want miss", ok, err)
	}

	want := []byte("artifact bytes")
	if err := c.Set(ctx, "key", want, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, "key")
	if err != nil || !ok {
		t.Fatalf("Get = ok=%v err=%v, want hit", ok, err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get = %q, want %q", got, want)
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("data"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("Get hit after Delete")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete(absent) = %v, want nil", err)
	}
}

func TestFileCacheTTLExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("data"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok, err := c.Get(ctx, "key"); err != nil || ok {
		t.Errorf("Get after expiry = ok=%v err=%v, want miss", ok, err)
	}
}

func TestNullCacheNeverStores(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("data"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "key"); err != nil || ok {
		t.Errorf("Get = ok=%v err=%v, want miss", ok, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestArtifactKey(t *testing.T) {
	wire := []byte(`{"pixels":[]}`)
	base := ArtifactKey(wire, 9, 0.5, "png")

	if !strings.HasPrefix(base, "artifact:") {
		t.Errorf("key %q missing artifact prefix", base)
	}
	if got := ArtifactKey(wire, 9, 0.5, "png"); got != base {
		t.Error("equal inputs produced different keys")
	}

	variants := []string{
		ArtifactKey([]byte(`{"pixels":[1]}`), 9, 0.5, "png"),
		ArtifactKey(wire, 10, 0.5, "png"),
		ArtifactKey(wire, 9, 0.25, "png"),
		ArtifactKey(wire, 9, 0.5, "bmp"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collides with base key", i)
		}
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if len(h) != 64 {
		t.Errorf("len = %d, want 64", len(h))
	}
	if h != Hash([]byte("hello")) {
		t.Error("Hash is not deterministic")
	}
	if h == Hash([]byte("world")) {
		t.Error("distinct inputs hash equal")
	}
}
