package logger

import (
	"strconv"
	"strings"
	"testing"

	"github.com/op/go-logging"
)

func TestGetLogsHonorsCount(t *testing.T) {
	t.Setenv("DTP_LOG_FOLDER", t.TempDir())
	InitLogger(logging.DEBUG)

	for i := 0; i < 5; i++ {
		Info("count entry ", strconv.Itoa(i))
	}

	if got := GetLogs(2, "info"); len(got) != 2 {
		t.Fatalf("GetLogs(2): got %d entries, want 2", len(got))
	}
	if got := GetLogs(1000, "info"); len(got) < 5 {
		t.Fatalf("GetLogs(1000): got %d entries, want at least 5", len(got))
	}
}

func TestGetLogsFiltersByLevel(t *testing.T) {
	t.Setenv("DTP_LOG_FOLDER", t.TempDir())
	InitLogger(logging.DEBUG)

	Debug("debug entry")
	Error("error entry")

	for _, line := range GetLogs(1000, "error") {
		if strings.Contains(line, "DEBUG") {
			t.Fatalf("debug line returned at error level: %q", line)
		}
	}
}
