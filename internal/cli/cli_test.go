package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stresslayout/pkg/cache"
	"github.com/matzehuels/stresslayout/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config = &config.File{Cache: config.Cache{Dir: "/srv/layouts"}}

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/srv/layouts" {
		t.Errorf("cacheDir() = %q, want config dir", dir)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	tests := []struct {
		name     string
		noCache  bool
		disabled bool
		wantNull bool
	}{
		{name: "enabled", wantNull: false},
		{name: "no-cache flag", noCache: true, wantNull: true},
		{name: "disabled in config", disabled: true, wantNull: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&bytes.Buffer{}, LogInfo)
			c.Config.Cache.Disabled = tt.disabled

			got, err := c.newCache(tt.noCache)
			if err != nil {
				t.Fatalf("newCache() error: %v", err)
			}
			_, isNull := got.(cache.NullCache)
			if isNull != tt.wantNull {
				t.Errorf("newCache() = %T, want null cache %v", got, tt.wantNull)
			}
		})
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"layout", "watch", "paths", "overlaps", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCompletion(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if !strings.Contains(out.String(), appName) {
		t.Error("bash completion should mention the command name")
	}
}
