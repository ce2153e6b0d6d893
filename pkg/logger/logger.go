package logger

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/morikuni/failure"
	"github.com/rs/zerolog"
)

// Leveled logger shared by the server and blogctl.
// - backed by zerolog (console or JSON output)
// - provides Debug/Info/Warn/Error/Fatal variants and Init(level)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	out    io.Writer = os.Stdout
	format           = "auto"
	level  Level     = LevelInfo
	logger           = build(out, format, level)
)

func init() {
	zerolog.ErrorStackMarshaler = errorStackMarshaller
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	s := strings.ToLower(strings.TrimSpace(l))
	switch s {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	case "fatal":
		level = LevelFatal
	default:
		level = LevelInfo
	}
	logger = build(out, format, level)
}

// SetFormat selects the output encoding: "human" (console), "json", or
// "auto" (console when stdout is a terminal).
func SetFormat(f string) error {
	f = strings.ToLower(strings.TrimSpace(f))
	switch f {
	case "auto", "human", "json":
	default:
		return fmt.Errorf("invalid log format: %s, expected: [auto, json, human]", f)
	}
	mu.Lock()
	defer mu.Unlock()
	format = f
	logger = build(out, format, level)
	return nil
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	logger = build(out, format, level)
}

func build(w io.Writer, f string, l Level) zerolog.Logger {
	useConsole := f == "human"
	if f == "auto" {
		if file, ok := w.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
			useConsole = true
		}
	}
	dst := w
	if useConsole {
		dst = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = w
			if file, ok := w.(*os.File); !ok || !isatty.IsTerminal(file.Fd()) {
				cw.NoColor = true
			}
		})
	}
	return zerolog.New(dst).Level(toZerolog(l)).With().Timestamp().Logger()
}

func toZerolog(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelFatal:
		return zerolog.FatalLevel
	}
	return zerolog.InfoLevel
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func formatFrame(frame failure.Frame) string {
	return frame.Pkg() + "." + frame.Func() + ":" + strconv.Itoa(frame.Line())
}

func errorStackMarshaller(err error) interface{} {
	if cs, ok := failure.CallStackOf(err); ok {
		frames := cs.Frames()
		res := make([]string, 0, len(frames))
		for _, frame := range frames {
			res = append(res, formatFrame(frame))
		}
		return res
	}
	return nil
}

func Debugf(format string, v ...interface{}) {
	current().Debug().Msgf(format, v...)
}

func Infof(format string, v ...interface{}) {
	current().Info().Msgf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	current().Warn().Msgf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	current().Error().Msgf(format, v...)
}

// Fatalf logs and exits with status 1.
func Fatalf(format string, v ...interface{}) {
	current().WithLevel(zerolog.FatalLevel).Msgf(format, v...)
	os.Exit(1)
}

// Err logs err at error level with its call stack when it carries one.
func Err(err error, msg string) {
	current().Error().Stack().Err(err).Msg(msg)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	current().Info().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
