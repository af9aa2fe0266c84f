package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/fatwa/internal/backendtest"
	"github.com/matzehuels/fatwa/pkg/cache"
	"github.com/matzehuels/fatwa/pkg/locale"
)

// isolate points config and cache lookups at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func execute(t *testing.T, args ...string) (*CLI, string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return c, out.String(), err
}

func TestVersion(t *testing.T) {
	isolate(t)
	_, out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if !strings.HasPrefix(out, "fatwa version dev") {
		t.Errorf("--version = %q", out)
	}
}

func TestConfigFlagsReachConfig(t *testing.T) {
	isolate(t)
	c, _, err := execute(t, "translations", "--builtin", "--lang", "ar", "--no-cache", "--retries", "2")
	if err != nil {
		t.Fatalf("translations error: %v", err)
	}
	if got := c.Config.Lang(); got != locale.Arabic {
		t.Errorf("Lang() = %q, want ar", got)
	}
	if c.Config.Retries != 2 {
		t.Errorf("Retries = %d, want 2", c.Config.Retries)
	}
	if c.Config.Cache.Backend != cache.BackendNone {
		t.Errorf("cache backend = %q, want none", c.Config.Cache.Backend)
	}
}

func TestConfigFileFlag(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yml")
	if err := os.WriteFile(path, []byte("language: ar\nprovider: dar-al-iftaa-ar\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, _, err := execute(t, "--config", path, "translations", "--builtin")
	if err != nil {
		t.Fatalf("translations error: %v", err)
	}
	if c.Config.Provider != "dar-al-iftaa-ar" || c.Config.Lang() != locale.Arabic {
		t.Errorf("config = %+v, want values from %s", c.Config, path)
	}
}

func TestInvalidFlags(t *testing.T) {
	isolate(t)
	tests := [][]string{
		{"translations", "--builtin", "--lang", "fr"},
		{"translations", "--builtin", "--theme", "neon"},
		{"translations", "--builtin", "--server", "ftp://example.com"},
		{"--config", "/does/not/exist.yml", "translations", "--builtin"},
	}
	for _, args := range tests {
		if _, _, err := execute(t, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestCommandsAgainstBackend(t *testing.T) {
	isolate(t)
	srv := backendtest.New(t)

	tests := [][]string{
		{"sources"},
		{"translations", "--lang", "en"},
		{"history", "clear", "--lang", "ar"},
		{"ask", "--no-animate", "What is zakat?"},
	}
	for _, args := range tests {
		args = append(args, "--server", srv.URL, "--no-cache")
		if _, _, err := execute(t, args...); err != nil {
			t.Errorf("%v error: %v", args, err)
		}
	}

	if n := srv.Hits(backendtest.RouteClearHistory); n != 1 {
		t.Errorf("clear-history hits = %d, want 1", n)
	}
	if asked := srv.Asked(); len(asked) != 1 || asked[0].Question != "What is zakat?" {
		t.Errorf("asked = %+v", asked)
	}
}

func TestAskReportsBackendError(t *testing.T) {
	isolate(t)
	srv := backendtest.New(t)
	srv.Fail(backendtest.RouteAsk, 500, "Internal server error")

	_, _, err := execute(t, "ask", "--no-animate", "--retries", "1", "--server", srv.URL, "--no-cache", "hello")
	if err == nil {
		t.Fatal("ask should fail when the backend does")
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "answer.md")
	if err := os.WriteFile(path, []byte("# Title\n\nSome *text*.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "render", "--no-animate", path); err != nil {
		t.Fatalf("render error: %v", err)
	}
}

func TestTranslationsBuiltinOutput(t *testing.T) {
	isolate(t)
	_, out, err := execute(t, "translations", "--builtin", "--lang", "ar")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"sources_title", "المصادر", "placeholder"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "answer_prefix") > strings.Index(out, "welcome") {
		t.Error("keys should be sorted")
	}
}

func TestCachePath(t *testing.T) {
	dir := isolate(t)

	_, out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	_, out, err = execute(t, "cache", "path", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is disabled") {
		t.Errorf("cache path --no-cache = %q", out)
	}
}

func TestCacheClear(t *testing.T) {
	isolate(t)
	_, out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared file cache") {
		t.Errorf("cache clear = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		_, out, err := execute(t, "completion", shell)
		if err != nil {
			t.Errorf("completion %s error: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s output does not mention %s", shell, appName)
		}
	}
	if _, _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestHistoryClearOutput(t *testing.T) {
	isolate(t)
	srv := backendtest.New(t)
	_, out, err := execute(t, "history", "clear", "--lang", "ar", "--server", srv.URL, "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "تم مسح سجل المحادثة") || !strings.Contains(out, srv.URL) {
		t.Errorf("history clear = %q", out)
	}
}
