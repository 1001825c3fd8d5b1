package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger_JSONIncludesBaseAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: FormatJSON, App: "medication-manager", Out: &buf})

	l.With(map[string]any{"route": "/medicines"}).Info("request", map[string]any{"status": 200})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if entry["app"] != "medication-manager" || entry["route"] != "/medicines" || entry["msg"] != "request" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry["level"] != "info" {
		t.Fatalf("expected level info, got %v", entry["level"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %#v", entry)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Out: &buf})

	l.Info("skip me", nil)
	l.Warn("keep me", map[string]any{"k": "v"})

	out := buf.String()
	if strings.Contains(out, "skip me") {
		t.Fatalf("info must be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, `msg="keep me"`) || !strings.Contains(out, "k=v") {
		t.Fatalf("expected warn line in text format, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": Debug, "": Info, "WARNING": Warn, "error": Error, "bogus": Info}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNop_DiscardsEverything(t *testing.T) {
	l := Nop().With(map[string]any{"job": "sweeper"})
	l.Error("nothing", map[string]any{"err": "x"})
}
