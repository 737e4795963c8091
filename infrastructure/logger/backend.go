package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

// Flags tweaking what the log line header carries.
const (
	// LogFlagLongFile appends the full path and line number of the logging
	// callsite, e.g. /a/b/c/main.go:123.
	LogFlagLongFile uint32 = 1 << iota

	// LogFlagShortFile appends just the file name and line number,
	// e.g. main.go:123. Takes precedence over LogFlagLongFile.
	LogFlagShortFile
)

// defaultFlags is read from the LOGFLAGS environment variable once, before
// any package-level logger variables are initialized. A plain variable is
// used rather than init() because variable initialization runs first and the
// subsystem loggers are themselves package-level variables.
var defaultFlags = flagsFromEnv()

// flagsFromEnv parses the comma-separated LOGFLAGS environment variable.
func flagsFromEnv() (flags uint32) {
	for _, f := range strings.Split(os.Getenv("LOGFLAGS"), ",") {
		switch f {
		case "longfile":
			flags |= LogFlagLongFile
		case "shortfile":
			flags |= LogFlagShortFile
		}
	}
	return
}

// Log rotation defaults: roll at 100 MB, keep the last 8 files.
const (
	defaultThresholdKB = 100 * 1000
	defaultMaxRolls    = 8
)

// Backend fans log entries out to a set of writers, each with its own level
// threshold. All subsystem loggers created from one backend funnel their
// lines through a single channel, so writes to a given writer never
// interleave.
type Backend struct {
	flag      uint32
	isRunning uint32
	writers   []logWriter
	writeChan chan logEntry
	syncClose sync.Mutex // held by the write loop until it has drained
}

// NewBackend creates a backend with the flags taken from the LOGFLAGS
// environment variable.
func NewBackend() *Backend {
	return NewBackendWithFlags(defaultFlags)
}

// NewBackendWithFlags creates a backend with explicit header flags.
func NewBackendWithFlags(flags uint32) *Backend {
	return &Backend{flag: flags, writeChan: make(chan logEntry)}
}

type logWriter interface {
	io.WriteCloser
	LogLevel() Level
}

// leveledWriter pairs a writer with the lowest level it accepts.
type leveledWriter struct {
	io.WriteCloser
	logLevel Level
}

func (w leveledWriter) LogLevel() Level {
	return w.logLevel
}

// AddLogFile adds a rotated log file receiving every entry at or above
// logLevel, using the default rotation settings. The file and its directory
// are created as needed.
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	return b.AddLogFileWithCustomRotator(logFile, logLevel, defaultThresholdKB, defaultMaxRolls)
}

// AddLogWriter adds an arbitrary writer receiving every entry at or above
// logLevel. Writers can only be added before the backend is running.
func (b *Backend) AddLogWriter(w io.WriteCloser, logLevel Level) error {
	if b.IsRunning() {
		return errors.New("cannot add writers to a running logger backend")
	}
	b.writers = append(b.writers, leveledWriter{
		WriteCloser: w,
		logLevel:    logLevel,
	})
	return nil
}

// AddLogFileWithCustomRotator is AddLogFile with explicit rotation settings.
func (b *Backend) AddLogFileWithCustomRotator(logFile string, logLevel Level, thresholdKB int64, maxRolls int) error {
	if b.IsRunning() {
		return errors.New("cannot add writers to a running logger backend")
	}
	logDir, _ := filepath.Split(logFile)
	// An empty dir means the file lives in the cwd.
	if logDir != "" {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Errorf("failed to create log directory: %+v", err)
		}
	}
	r, err := rotator.New(logFile, thresholdKB, false, maxRolls)
	if err != nil {
		return errors.Errorf("failed to create file rotator: %s", err)
	}
	b.writers = append(b.writers, leveledWriter{
		WriteCloser: r,
		logLevel:    logLevel,
	})
	return nil
}

// Run starts the backend's write loop in its own goroutine. It may only be
// called once per backend.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 0, 1) {
		return errors.New("the logger backend is already running")
	}
	go func() {
		defer func() {
			if err := recover(); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Fatal error in logger.Backend goroutine: %+v\n", err)
				_, _ = fmt.Fprintf(os.Stderr, "Goroutine stacktrace: %s\n", debug.Stack())
			}
		}()
		b.runBlocking()
	}()
	return nil
}

func (b *Backend) runBlocking() {
	defer atomic.StoreUint32(&b.isRunning, 0)
	b.syncClose.Lock()
	defer b.syncClose.Unlock()

	for entry := range b.writeChan {
		for _, writer := range b.writers {
			if entry.level >= writer.LogLevel() {
				_, _ = writer.Write(entry.log)
			}
		}
	}
}

// IsRunning reports whether the write loop is up.
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.isRunning) != 0
}

// Close stops the write loop, waits for it to drain, and closes every
// writer.
func (b *Backend) Close() {
	close(b.writeChan)
	// The write loop holds syncClose until it has finished writing.
	b.syncClose.Lock()
	defer b.syncClose.Unlock()
	for _, writer := range b.writers {
		_ = writer.Close()
	}
}

// Logger returns a subsystem logger writing through the backend. The tag is
// included in every log line. New loggers start at LevelOff until configured.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{LevelOff, subsystemTag, b, b.writeChan}
}
