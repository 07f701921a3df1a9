package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("debug", &buf)

	log.WithField("path", "/tmp/snap.json").Debug("snapshot saved")
	log.WithFields(map[string]interface{}{"data_view": "dv1"}).Info("listing snapshots")
	log.Error("load failed", errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, "snapshot saved") || !strings.Contains(out, "/tmp/snap.json") {
		t.Errorf("debug line missing field: %s", out)
	}
	if !strings.Contains(out, "dv1") {
		t.Errorf("info line missing field: %s", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("error line missing cause: %s", out)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("warn", &buf)

	log.Debug("hidden")
	log.Info("also hidden")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("low-severity lines should be filtered: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("nonsense", &buf)

	log.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("info should be enabled after fallback")
	}
}

func TestNop_Discards(t *testing.T) {
	log := Nop()
	log.Info("nothing happens")
	log.Error("still nothing", errors.New("x"))
}
