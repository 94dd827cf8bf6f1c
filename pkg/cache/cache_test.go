package cache

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/stresslayout/pkg/layout"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %v, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Fatal("empty cache should miss")
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get() = %q, %v, %v; want hit", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit = %v, err = %v; want clean miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDistanceKey(t *testing.T) {
	links := []layout.Link{{Source: 0, Target: 1}}
	k := DistanceKey(2, links)
	if k != DistanceKey(2, []layout.Link{{Source: 0, Target: 1}}) {
		t.Error("DistanceKey should be deterministic")
	}
	if k == DistanceKey(3, links) {
		t.Error("node count should change the key")
	}
	if k == DistanceKey(2, []layout.Link{{Source: 0, Target: 1, Length: 2}}) {
		t.Error("link length should change the key")
	}
}

func TestDistances(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inf := math.Inf(1)
	want := [][]float64{{0, 1, inf}, {1, 0, inf}, {inf, inf, 0}}
	calls := 0
	compute := func() ([][]float64, error) {
		calls++
		return want, nil
	}

	d, hit, err := Distances(ctx, c, "k", 0, compute)
	if err != nil || hit {
		t.Fatalf("first call: hit = %v, err = %v", hit, err)
	}
	d, hit, err = Distances(ctx, c, "k", 0, compute)
	if err != nil || !hit {
		t.Fatalf("second call: hit = %v, err = %v", hit, err)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
	for i := range want {
		for j := range want[i] {
			if d[i][j] != want[i][j] {
				t.Errorf("d[%d][%d] = %v, want %v", i, j, d[i][j], want[i][j])
			}
		}
	}
}

func TestDistancesComputeError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := Distances(context.Background(), NewNullCache(), "k", 0, func() ([][]float64, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}
