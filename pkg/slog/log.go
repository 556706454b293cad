// Package slog is a simple leveled logger with colored level tags, code
// location printing and a check-and-report shortcut for error returns.
package slog

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gookit/color"
)

const (
	Off = iota
	Fatal
	Error
	Warn
	Info
	Debug
	Trace
)

var l = GetStd()

// GetStd returns a logger printing to stderr, discarding the check set.
func GetStd() (ll *Log) {
	ll, _ = New(os.Stderr)
	return
}

func init() {
	switch strings.ToUpper(os.Getenv("ROOTS_LOG")) {
	case "OFF", "0", "FALSE":
		SetLogLevel(Off)
	case "FATAL":
		SetLogLevel(Fatal)
	case "ERROR":
		SetLogLevel(Error)
	case "WARN":
		SetLogLevel(Warn)
	case "DEBUG", "1", "TRUE", "ON":
		SetLogLevel(Debug)
		l.D.Ln("printing logs at this level and lower")
	case "TRACE":
		SetLogLevel(Trace)
		l.T.Ln("printing logs at this level and lower")
	default:
		SetLogLevel(Info)
	}
}

type (
	// Ln prints lists of interfaces with spaces in between.
	Ln func(a ...interface{})
	// F prints like fmt.Printf surrounded by log details.
	F func(format string, a ...interface{})
	// S prints a spew.Sdump of the arguments.
	S func(a ...interface{})
	// C accepts a closure so the formatting cost is avoided when the level is
	// not being printed.
	C func(closure func() string)
	// Chk prints if there is an error and returns true, a shortcut for the
	// check-and-return error handling pattern.
	Chk func(e error) bool
	// Err constructs an error with fmt.Errorf and returns it after printing.
	Err func(format string, a ...interface{}) error

	LevelPrinter struct {
		Ln
		F
		S
		C
		Chk
		Err
	}
	LevelSpec struct {
		ID        int
		Name      string
		Colorizer func(a ...interface{}) string
	}
)

var (
	currentLevel atomic.Int32

	// LevelSpecs specifies the id, name and color-printing function of each
	// log level.
	LevelSpecs = []LevelSpec{
		{Off, "   ", color.Bit24(0, 0, 0, false).Sprint},
		{Fatal, "FTL", color.Bit24(128, 0, 0, false).Sprint},
		{Error, "ERR", color.Bit24(255, 0, 0, false).Sprint},
		{Warn, "WRN", color.Bit24(0, 255, 0, false).Sprint},
		{Info, "INF", color.Bit24(255, 255, 0, false).Sprint},
		{Debug, "DBG", color.Bit24(0, 125, 255, false).Sprint},
		{Trace, "TRC", color.Bit24(125, 0, 255, false).Sprint},
	}
)

// Log is a set of log printers for the various levels.
type Log struct {
	F, E, W, I, D, T LevelPrinter
}

// Check is the set of Chk printers of a Log, used as a compact error check.
type Check struct {
	F, E, W, I, D, T Chk
}

func New(writer io.Writer) (l *Log, c *Check) {
	l = &Log{
		F: getPrinter(Fatal, writer),
		E: getPrinter(Error, writer),
		W: getPrinter(Warn, writer),
		I: getPrinter(Info, writer),
		D: getPrinter(Debug, writer),
		T: getPrinter(Trace, writer),
	}
	c = &Check{
		F: l.F.Chk,
		E: l.E.Chk,
		W: l.W.Chk,
		I: l.I.Chk,
		D: l.D.Chk,
		T: l.T.Chk,
	}
	return
}

func SetLogLevel(l int) {
	currentLevel.Store(int32(l))
}

func GetLogLevel() (l int) {
	return int(currentLevel.Load())
}

func JoinStrings(a ...any) (s string) {
	for i := range a {
		s += fmt.Sprint(a[i])
		if i < len(a)-1 {
			s += " "
		}
	}
	return
}

// GetLoc returns the file:line of the caller at the given stack depth.
func GetLoc(skip int) (output string) {
	_, file, line, _ := runtime.Caller(skip)
	output = color.Bit24(0, 128, 255, false).Sprint(file, ":", line)
	return
}

// TimeStamp is the seconds.nanoseconds unix timestamp prefix of log entries.
func TimeStamp() (s string) {
	t := time.Now().UnixNano()
	return fmt.Sprintf("%d.%09d", t/1e9, t%1e9)
}

func emit(l int, writer io.Writer, text string) {
	if int(currentLevel.Load()) < l {
		return
	}
	fmt.Fprintf(writer, "%s %s %s %s\n",
		TimeStamp(),
		LevelSpecs[l].Colorizer(LevelSpecs[l].Name),
		text,
		GetLoc(3),
	)
}

func getPrinter(l int, writer io.Writer) LevelPrinter {
	return LevelPrinter{
		Ln: func(a ...interface{}) {
			emit(l, writer, JoinStrings(a...))
		},
		F: func(format string, a ...interface{}) {
			emit(l, writer, fmt.Sprintf(format, a...))
		},
		S: func(a ...interface{}) {
			emit(l, writer, spew.Sdump(a...))
		},
		C: func(closure func() string) {
			if int(currentLevel.Load()) < l {
				return
			}
			emit(l, writer, closure())
		},
		Chk: func(e error) bool {
			if e != nil {
				emit(l, writer, e.Error())
				return true
			}
			return false
		},
		Err: func(format string, a ...interface{}) error {
			emit(l, writer, fmt.Sprintf(format, a...))
			return fmt.Errorf(format, a...)
		},
	}
}
