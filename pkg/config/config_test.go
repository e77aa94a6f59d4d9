package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", WithEnvironment(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), *cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultLeavesRequestsUnbounded(t *testing.T) {
	if got := Default().Timeout; got != 0 {
		t.Fatalf("default timeout = %s, want 0", got)
	}
}

func TestLoadYAMLThenEnvironment(t *testing.T) {
	path := writeFile(t, "formbuilder.yaml", `
api_url: https://forms.example.com/
save_url: https://forms.example.com/save
timeout: 5s
log:
  level: debug
server:
  addr: ":9000"
`)
	cfg, err := Load(path, WithEnvironment(map[string]string{
		"FORMBUILDER_SAVE_URL":    "https://override.example.com/save",
		"FORMBUILDER_LOG_FORMAT":  "console",
		"FORMBUILDER_SERVER_ADDR": ":7000",
		"UNRELATED":               "x",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.APIURL = "https://forms.example.com/"
	want.SaveURL = "https://override.example.com/save"
	want.Timeout = 5 * time.Second
	want.Log = LogConfig{Level: "debug", Format: "console"}
	want.Server.Addr = ":7000"
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	path := writeFile(t, "bad.yaml", "log:\n  level: loud\n  format: xml\n")
	_, err := Load(path, WithEnvironment(map[string]string{}))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, fragment := range []string{"log.level", "log.format"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in error, got %v", fragment, err)
		}
	}

	path = writeFile(t, "unknown.yaml", "apiurl: nope\n")
	if _, err := Load(path, WithEnvironment(map[string]string{})); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoggerHonoursLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	var buf bytes.Buffer
	logger := cfg.Logger(&buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected log output %q", out)
	}
}
