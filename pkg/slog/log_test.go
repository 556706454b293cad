package slog_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/radroots/radroots/pkg/slog"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log, chk := slog.New(&buf)
	slog.SetLogLevel(slog.Trace)
	log.T.Ln("testing log level", slog.LevelSpecs[slog.Trace].Name)
	log.D.Ln("testing log level", slog.LevelSpecs[slog.Debug].Name)
	log.I.Ln("testing log level", slog.LevelSpecs[slog.Info].Name)
	log.W.Ln("testing log level", slog.LevelSpecs[slog.Warn].Name)
	log.E.F("testing log level %s", slog.LevelSpecs[slog.Error].Name)
	log.F.Ln("testing log level", slog.LevelSpecs[slog.Fatal].Name)
	if !chk.E(errors.New("dummy error as error")) {
		t.Error("Chk should return true on error")
	}
	if chk.E(nil) {
		t.Error("Chk should return false on nil")
	}
	if log.I.Err("format string %d '%s'", 5, "testing") == nil {
		t.Error("Err should return a non-nil error")
	}
	if buf.Len() == 0 {
		t.Error("nothing was printed")
	}
}

func TestLevelGate(t *testing.T) {
	var buf bytes.Buffer
	log, _ := slog.New(&buf)
	slog.SetLogLevel(slog.Error)
	log.D.Ln("should not appear")
	if strings.Contains(buf.String(), "should not appear") {
		t.Error("debug entry printed above current level")
	}
	log.E.Ln("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Error("error entry was suppressed")
	}
	slog.SetLogLevel(slog.Info)
}
