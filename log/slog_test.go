package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

type setupType struct {
	logger *RelayLogger
	buffer bytes.Buffer
}

func beforeEach(t *testing.T) *setupType {
	var r setupType

	err := InitLoggerWithWriter("info", "json", &r.buffer, false)
	if err != nil {
		t.Fatal(err)
	}

	r.logger = GetLogger()

	return &r
}

type logType struct {
	Time   string
	Level  string
	Source struct {
		Function string
		File     string
		Line     int
	}
	Msg       string
	Stack     string
	Error     string
	Module    string `json:"module"`
	ChainName string `json:"chain_name"`
}

func parseResult(setup *setupType, t *testing.T) (string, logType) {
	raw := setup.buffer.String()
	var parsed logType

	err := json.Unmarshal(setup.buffer.Bytes(), &parsed)
	if err != nil {
		t.Fatalf("fail to parse log: %v: %s", err, raw)
	}

	return raw, parsed
}

func TestLogLevel(t *testing.T) {
	setup := beforeEach(t)

	setup.logger.log(slog.LevelDebug, 0, "test")
	if 0 < setup.buffer.Len() {
		t.Fatalf("debug log is output: %s", setup.buffer.String())
	}
}

func TestLogLog(t *testing.T) {
	setup := beforeEach(t)

	setup.logger.log(slog.LevelInfo, 0, "test")
	raw, r := parseResult(setup, t)

	if r.Level != "INFO" {
		t.Fatalf("mismatch level: %s", raw)
	}

	if m, err := regexp.MatchString(`/log.TestLogLog$`, r.Source.Function); err != nil || !m {
		t.Fatalf("mismatch source.function: %v", raw)
	}
}

func TestLogError(t *testing.T) {
	setup := beforeEach(t)

	setup.logger.Error("testerr", fmt.Errorf("dummy"))
	raw, r := parseResult(setup, t)

	if r.Level != "ERROR" {
		t.Fatalf("mismatch level: %s", raw)
	}

	if m, err := regexp.MatchString(`/log.TestLogError$`, r.Source.Function); err != nil || !m {
		t.Fatalf("mismatch source.function: %v", raw)
	}

	if r.Error != "dummy" {
		t.Fatalf("mismatch error: %s", raw)
	}

	if r.Stack == "" {
		t.Fatalf("missing stack: %s", raw)
	}
}

func TestLogErrorContext(t *testing.T) {
	setup := beforeEach(t)

	setup.logger.ErrorContext(context.TODO(), "testerr", fmt.Errorf("dummy"), "height", 1)
	raw, r := parseResult(setup, t)

	require.Equal(t, "ERROR", r.Level, raw)
	require.Regexp(t, `/log.TestLogErrorContext$`, r.Source.Function)
	require.Equal(t, "dummy", r.Error)
}

func TestWithAttributes(t *testing.T) {
	setup := beforeEach(t)

	setup.logger.WithChain("astar").WithModule("core.treasury").Info("test")
	_, r := parseResult(setup, t)

	require.Equal(t, "astar", r.ChainName)
	require.Equal(t, "core.treasury", r.Module)
}

func TestInitLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	cases := []struct {
		name   string
		level  string
		format string
		valid  bool
	}{
		{"lower-case level", "debug", "text", true},
		{"upper-case level", "WARN", "json", true},
		{"unknown level", "verbose", "json", false},
		{"unknown format", "INFO", "yaml", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := InitLoggerWithWriter(c.level, c.format, &buf, false)
			if c.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestInitLoggerInvalidOutput(t *testing.T) {
	require.Error(t, InitLogger("INFO", "json", "syslog", false))
}
