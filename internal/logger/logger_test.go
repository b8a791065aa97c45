package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/samvad-hq/coursegraph-client/internal/config"
)

func TestInitWithWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := InitWithWriter(&config.Config{AppName: "cg", LogLevel: "info"}, &buf)
	if err != nil {
		t.Fatalf("InitWithWriter: %v", err)
	}

	log.DebugObj("hidden", "k", 1)
	log.InfoObj("visible", "request", map[string]any{"path": "/users"})
	_ = Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "visible" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["app"] != "cg" {
		t.Fatalf("app = %v", entry["app"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts field: %v", entry)
	}
	req, ok := entry["request"].(map[string]any)
	if !ok || req["path"] != "/users" {
		t.Fatalf("request field = %v", entry["request"])
	}
}

func TestPackageHelpersUseInitializedLogger(t *testing.T) {
	var buf bytes.Buffer
	if _, err := InitWithWriter(&config.Config{LogLevel: "debug"}, &buf); err != nil {
		t.Fatalf("InitWithWriter: %v", err)
	}

	DebugObj("dbg", "k", "v")
	WarnObj("warn", "k", "v")
	_ = Close()

	out := buf.String()
	if !strings.Contains(out, `"msg":"dbg"`) || !strings.Contains(out, `"msg":"warn"`) {
		t.Fatalf("expected both lines, got %q", out)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got.String() != "info" {
		t.Fatalf("parseLevel(verbose) = %s", got)
	}
	if got := parseLevel(" WARNING "); got.String() != "warn" {
		t.Fatalf("parseLevel(WARNING) = %s", got)
	}
}
