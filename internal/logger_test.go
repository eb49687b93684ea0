package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger_ProdEmitsJSONWithServiceName(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "prod", "info")

	logger.Info("cart summary served", "cart_id", "cart-1")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("prod log line is not JSON: %v", err)
	}
	if line["service"] != "embla" {
		t.Errorf("service = %v, want embla", line["service"])
	}
	if line["msg"] != "cart summary served" {
		t.Errorf("msg = %v", line["msg"])
	}
}

func TestNewLogger_DevEmitsText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "dev", "debug")

	logger.Debug("resolver replayed")

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Errorf("dev log should be text, got %q", out)
	}
	if !strings.Contains(out, "resolver replayed") {
		t.Errorf("log line missing message: %q", out)
	}
}

func TestNewLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "dev", "loud")

	logger.Debug("suppressed")
	if buf.Len() != 0 {
		t.Errorf("debug line emitted at default info level: %q", buf.String())
	}

	logger.Info("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Error("info line missing at default level")
	}
}
