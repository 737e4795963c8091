// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logger

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// defaultLogLevel is the level subsystems log at until configured otherwise.
const defaultLogLevel = LevelInfo

// logEntry is a rendered log line together with the level it was emitted at,
// so each writer can apply its own threshold.
type logEntry struct {
	log   []byte
	level Level
}

// Logger is a subsystem logger. All loggers created from the same Backend
// share its writers; writes are serialized through the backend's channel.
type Logger struct {
	lvl       Level // atomic
	tag       string
	b         *Backend
	writeChan chan<- logEntry
}

// Trace formats message using the default formats for its operands and writes
// to log with LevelTrace.
func (l *Logger) Trace(args ...interface{}) {
	l.print(LevelTrace, args...)
}

// Tracef formats message according to format specifier and writes to log with
// LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.printf(LevelTrace, format, args...)
}

// Debug formats message using the default formats for its operands and writes
// to log with LevelDebug.
func (l *Logger) Debug(args ...interface{}) {
	l.print(LevelDebug, args...)
}

// Debugf formats message according to format specifier and writes to log with
// LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.printf(LevelDebug, format, args...)
}

// Info formats message using the default formats for its operands and writes
// to log with LevelInfo.
func (l *Logger) Info(args ...interface{}) {
	l.print(LevelInfo, args...)
}

// Infof formats message according to format specifier and writes to log with
// LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.printf(LevelInfo, format, args...)
}

// Warn formats message using the default formats for its operands and writes
// to log with LevelWarn.
func (l *Logger) Warn(args ...interface{}) {
	l.print(LevelWarn, args...)
}

// Warnf formats message according to format specifier and writes to log with
// LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.printf(LevelWarn, format, args...)
}

// Error formats message using the default formats for its operands and writes
// to log with LevelError.
func (l *Logger) Error(args ...interface{}) {
	l.print(LevelError, args...)
}

// Errorf formats message according to format specifier and writes to log with
// LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.printf(LevelError, format, args...)
}

// Critical formats message using the default formats for its operands and
// writes to log with LevelCritical.
func (l *Logger) Critical(args ...interface{}) {
	l.print(LevelCritical, args...)
}

// Criticalf formats message according to format specifier and writes to log
// with LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.printf(LevelCritical, format, args...)
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32((*uint32)(&l.lvl)))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(logLevel Level) {
	atomic.StoreUint32((*uint32)(&l.lvl), uint32(logLevel))
}

func (l *Logger) print(lvl Level, args ...interface{}) {
	if lvl < l.Level() {
		return
	}
	l.write(lvl, fmt.Sprint(args...))
}

func (l *Logger) printf(lvl Level, format string, args ...interface{}) {
	if lvl < l.Level() {
		return
	}
	l.write(lvl, fmt.Sprintf(format, args...))
}

// write renders the log line and hands it to the backend. If the backend is
// not running yet the line goes to stdout so early failures are not silent.
func (l *Logger) write(lvl Level, message string) {
	t := time.Now() // get as early as possible

	buf := &bytes.Buffer{}
	formatHeader(buf, t, lvl.String(), l.tag, l.b.flag)
	buf.WriteString(message)
	buf.WriteByte('\n')

	if !l.b.IsRunning() {
		_, _ = fmt.Fprint(os.Stdout, buf.String())
		return
	}
	l.writeChan <- logEntry{buf.Bytes(), lvl}
}

// formatHeader writes a log header to buf in the following format:
//     2006-01-02 15:04:05.000 [LVL] TAG: caller.go:123
func formatHeader(buf *bytes.Buffer, t time.Time, lvl, tag string, flag uint32) {
	buf.WriteString(t.Format("2006-01-02 15:04:05.000"))
	buf.WriteString(" [")
	buf.WriteString(lvl)
	buf.WriteString("] ")
	buf.WriteString(tag)
	buf.WriteString(": ")

	if flag&(LogFlagLongFile|LogFlagShortFile) != 0 {
		file, line := callsite(flag)
		buf.WriteString(file)
		buf.WriteByte(':')
		fmt.Fprintf(buf, "%d ", line)
	}
}

// callsite returns the file name and line of the callsite of the logging
// client.
func callsite(flag uint32) (string, int) {
	_, file, line, ok := runtime.Caller(calldepth)
	if !ok {
		return "???", 0
	}
	if flag&LogFlagShortFile != 0 {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if os.IsPathSeparator(file[i]) {
				short = file[i+1:]
				break
			}
		}
		file = short
	}
	return file, line
}

// calldepth is the call depth of the callsite function relative to the caller
// of the subsystem logger.
const calldepth = 4

var (
	// backendLog is the logging backend used to create all subsystem
	// loggers.
	backendLog = NewBackend()

	registryMtx      sync.Mutex
	subsystemLoggers = make(map[string]*Logger)
)

// RegisterSubSystem returns the logger for the given subsystem tag, creating
// it on first use. Packages call this from their log.go at init time.
func RegisterSubSystem(subsystem string) *Logger {
	registryMtx.Lock()
	defer registryMtx.Unlock()

	logger, ok := subsystemLoggers[subsystem]
	if !ok {
		logger = backendLog.Logger(subsystem)
		logger.SetLevel(defaultLogLevel)
		subsystemLoggers[subsystem] = logger
	}
	return logger
}

// SupportedSubsystems returns a sorted slice of the registered subsystems.
func SupportedSubsystems() []string {
	registryMtx.Lock()
	defer registryMtx.Unlock()

	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	return subsystems
}

// SetLogLevel sets the logging level for the provided subsystem. Invalid
// subsystems are ignored. Uninitialized subsystems are dynamically created as
// needed.
func SetLogLevel(subsystemID string, logLevel string) {
	level, _ := LevelFromString(logLevel)

	registryMtx.Lock()
	defer registryMtx.Unlock()
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level. It also dynamically creates the subsystem loggers as needed, so it
// can be used to initialize the logging system.
func SetLogLevels(logLevel string) error {
	level, ok := LevelFromString(logLevel)
	if !ok {
		return fmt.Errorf("invalid log level %s", logLevel)
	}

	registryMtx.Lock()
	defer registryMtx.Unlock()
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}

// ParseAndSetLogLevels attempts to parse the specified debug level and set
// the levels accordingly. An appropriate error is returned if anything is
// invalid. The levelStr format is either a global level, or a comma separated
// list of subsystem=level pairs.
func ParseAndSetLogLevels(logLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(logLevel, ",") && !strings.Contains(logLevel, "=") {
		// Validate debug log level.
		if _, ok := LevelFromString(logLevel); !ok {
			return fmt.Errorf("the specified debug level [%s] is invalid", logLevel)
		}

		// Change the logging level for all subsystems.
		return SetLogLevels(logLevel)
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(logLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			return fmt.Errorf("the specified debug level contains an invalid subsystem/level pair [%s]",
				logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		registryMtx.Lock()
		_, exists := subsystemLoggers[subsysID]
		registryMtx.Unlock()
		if !exists {
			return fmt.Errorf("the specified subsystem [%s] is invalid -- supported subsystems %v",
				subsysID, SupportedSubsystems())
		}

		// Validate log level.
		if _, ok := LevelFromString(logLevel); !ok {
			return fmt.Errorf("the specified debug level [%s] is invalid", logLevel)
		}

		SetLogLevel(subsysID, logLevel)
	}
	return nil
}

// InitLog attaches log file and error log file to the backend log and starts
// it.
func InitLog(logFile, errLogFile string) error {
	err := backendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		return fmt.Errorf("error adding log file %s as log rotator for level %s: %s",
			logFile, LevelTrace, err)
	}
	err = backendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		return fmt.Errorf("error adding log file %s as log rotator for level %s: %s",
			errLogFile, LevelWarn, err)
	}
	err = backendLog.AddLogWriter(os.Stdout, LevelInfo)
	if err != nil {
		return fmt.Errorf("error adding stdout to the loggerfor level %s: %s",
			LevelInfo, err)
	}
	err = backendLog.Run()
	if err != nil {
		return fmt.Errorf("error starting the logger: %s ", err)
	}
	return nil
}

// Close shuts the logging backend down, flushing any pending writes.
func Close() {
	backendLog.Close()
}
