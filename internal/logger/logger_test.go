package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetup_FileOutput(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	closer, err := Setup(Config{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	l := WithComponent("invoice")
	l.Info().Str("number", "FAC-2024-001").Msg("invoice created")
	l.Debug().Msg("filtered out")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"component":"invoice"`) || !strings.Contains(out, `"number":"FAC-2024-001"`) {
		t.Errorf("missing fields in %s", out)
	}
	if strings.Contains(out, "filtered out") {
		t.Errorf("debug entry written at info level")
	}
}

func TestSetup_BadLevel(t *testing.T) {
	if _, err := Setup(Config{Level: "loud"}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}
