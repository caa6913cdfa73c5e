// Package logx is the core's logger: level-filtered, println-backed, no
// log/slog dependency. SPI completion and CS-edge callbacks run in
// interrupt context and must never log (§5, §4.5.3) — this package is for
// the pump worker and public API only.
package logx

import "github.com/jangala-dev/esp-hosted-spi/x/fmtx"

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

// Min is the lowest level that is actually printed. Defaults to Info.
var Min = LevelInfo

func Debug(format string, a ...any) { log(LevelDebug, "debug", format, a...) }
func Info(format string, a ...any)  { log(LevelInfo, "info", format, a...) }
func Warn(format string, a ...any)  { log(LevelWarn, "warn", format, a...) }
func Error(format string, a ...any) { log(LevelError, "error", format, a...) }

func log(lvl Level, tag, format string, a ...any) {
	if lvl < Min {
		return
	}
	println(fmtx.Sprintf("["+tag+"] "+format, a...))
}
