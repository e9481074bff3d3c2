package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const instrumentationName = "github.com/hyperledger-labs/yui-colony/log"

type RelayLogger struct {
	*slog.Logger
}

var relayLogger *RelayLogger

func InitLogger(logLevel, format, output string, enableTelemetry bool) error {
	// output
	var writer io.Writer
	switch output {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		return errors.Newf("invalid log output: %q", output)
	}
	return InitLoggerWithWriter(logLevel, format, writer, enableTelemetry)
}

func InitLoggerWithWriter(logLevel, format string, writer io.Writer, enableTelemetry bool) error {
	// level
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		return errors.Newf("invalid log level: %q", logLevel)
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     slogLevel,
		AddSource: true,
	}

	var handler slog.Handler
	// format
	switch format {
	case "text":
		handler = slog.NewTextHandler(writer, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(writer, handlerOpts)
	default:
		return errors.Newf("invalid log format: %q", format)
	}

	if enableTelemetry {
		handler = slogmulti.Fanout(handler, otelslog.NewHandler(instrumentationName))
	}

	// set global logger
	relayLogger = &RelayLogger{slog.New(handler)}
	return nil
}

// GetLogger returns the global logger. A text logger on stderr is used until
// InitLogger is called.
func GetLogger() *RelayLogger {
	if relayLogger == nil {
		return &RelayLogger{slog.New(slog.NewTextHandler(os.Stderr, nil))}
	}
	return relayLogger
}

// log emits a record whose source is the caller `depth` frames above the
// caller of log.
func (rl *RelayLogger) log(level slog.Level, depth int, msg string, args ...any) {
	rl.logContext(context.Background(), level, depth+1, msg, args...)
}

func (rl *RelayLogger) logContext(ctx context.Context, level slog.Level, depth int, msg string, args ...any) {
	if !rl.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	// skip [runtime.Callers, logContext, caller of logContext]
	runtime.Callers(depth+2, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = rl.Handler().Handle(ctx, r)
}

func (rl *RelayLogger) errorArgs(depth int, err error, otherArgs []any) []any {
	stack := errors.WithStackDepth(err, depth+1)
	return append([]any{
		"error", err,
		"stack", fmt.Sprintf("%+v", stack),
	}, otherArgs...)
}

// Error logs err together with its stack trace.
func (rl *RelayLogger) Error(msg string, err error, otherArgs ...any) {
	rl.log(slog.LevelError, 1, msg, rl.errorArgs(1, err, otherArgs)...)
}

// ErrorContext is the context-aware variant of Error.
func (rl *RelayLogger) ErrorContext(ctx context.Context, msg string, err error, otherArgs ...any) {
	rl.logContext(ctx, slog.LevelError, 1, msg, rl.errorArgs(1, err, otherArgs)...)
}

// Fatal logs err and exits the process.
func (rl *RelayLogger) Fatal(msg string, err error, otherArgs ...any) {
	rl.log(slog.LevelError, 1, msg, rl.errorArgs(1, err, otherArgs)...)
	os.Exit(1)
}

func (rl *RelayLogger) WithChain(chainName string) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"chain_name", chainName,
		),
	}
}

func (rl *RelayLogger) WithRelay(srcChain, dstChain string) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"source_chain", srcChain,
			"destination_chain", dstChain,
		),
	}
}

func (rl *RelayLogger) WithLightClient(sourceChain string) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"light_client", sourceChain,
		),
	}
}

func (rl *RelayLogger) WithTreasury(sourceChain string) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"treasury", sourceChain,
		),
	}
}

func (rl *RelayLogger) WithModule(
	moduleName string,
) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"module", moduleName,
		),
	}
}
