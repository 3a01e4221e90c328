package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/astro-web3/metabase-embed/pkg/logger"
)

func TestSecret(t *testing.T) {
	attr := logger.Secret("metabase_key", "super-secret")
	if strings.Contains(attr.Value.String(), "super-secret") {
		t.Fatalf("secret leaked: %s", attr.Value.String())
	}
	if attr.Value.String() != "<redacted:12>" {
		t.Errorf("unexpected rendering: %s", attr.Value.String())
	}
	if got := logger.Secret("k", "").Value.String(); got != "<unset>" {
		t.Errorf("expected <unset>, got %s", got)
	}
}

func TestInitLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger.InitLoggerWithWriter(&buf, "info", "json", false)

	logger.DebugContext(context.Background(), "hidden")
	logger.InfoContext(context.Background(), "visible", logger.Secret("key", "abc"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if record["msg"] != "visible" {
		t.Errorf("unexpected msg: %v", record["msg"])
	}
	if record["key"] != "<redacted:3>" {
		t.Errorf("unexpected key attr: %v", record["key"])
	}
	if _, ok := record["timestamp"]; !ok {
		t.Error("expected timestamp key")
	}
}
