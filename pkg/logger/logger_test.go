package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "debug", "JSON")
	defer Configure(&buf, "info", "text")

	For("pathfinder").WithField("expanded", 3).Debug("path found")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "pathfinder" || entry["msg"] != "path found" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestConfigureBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "chatty", "")
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info level, got %s", Log.GetLevel())
	}
}
