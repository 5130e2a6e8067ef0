package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("matcher").Info(context.Background(), "ranked", Int("candidates", 3), Bool("complete", true))

	out := buf.String()
	for _, want := range []string{"msg=ranked", "candidates=3", "complete=true", "logger=matcher", "source=logger_test.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithFormat("JSON"), WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Warn(context.Background(), "slow rank", String("user_id", "u-1"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not json: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "slow rank" || rec["user_id"] != "u-1" || rec["level"] != "WARN" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level, got %q", buf.String())
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	Get().Debug(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug should be logged after SetLevelString(debug)")
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error(context.Background(), "dropped", Error(nil))
	if l.Named("x") == nil {
		t.Fatal("named nop logger is nil")
	}
}
