package pkg

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelErrOnly
	LogLevelDebug
)

var log_level = LogLevelErrOnly

var log_output io.Writer = os.Stderr

func (l LogLevel) String() string {
	switch l {
	case LogLevelNone:
		return "none"
	case LogLevelErrOnly:
		return "error"
	case LogLevelDebug:
		return "debug"
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

// ParseLogLevel maps a config value to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return LogLevelNone, nil
	case "", "error", "err":
		return LogLevelErrOnly, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return LogLevelErrOnly, fmt.Errorf("Invalid log level: %s", s)
}

func GetLogLevel() LogLevel { return log_level }

// SetLogOutput sends every enabled logger to w.
func SetLogOutput(w io.Writer) {
	log_output = w
	SetLogLevel(log_level)
}

func SetLogLevel(level LogLevel) {
	log_level = level

	for _, logger := range []*log.Logger{error_logger, fatal_logger} {
		logger.SetOutput(outputFor(level, LogLevelErrOnly))
	}
	for _, logger := range []*log.Logger{info_logger, warn_logger, debug_logger} {
		logger.SetOutput(outputFor(level, LogLevelDebug))
	}
	debug_logger.Println("log level set to", level)
}

func outputFor(level, min LogLevel) io.Writer {
	if level < min {
		return io.Discard
	}
	return log_output
}

// info & debug output goes to stderr so it never mixes with shell output on stdout
var (
	info_logger  = log.New(io.Discard, "INFO: ", log.Lshortfile|log.LstdFlags)
	error_logger = log.New(os.Stderr, "ERROR: ", log.Lshortfile|log.LstdFlags)
	fatal_logger = log.New(os.Stderr, "FATAL: ", log.Lshortfile|log.LstdFlags)
	warn_logger  = log.New(io.Discard, "WARN: ", log.Lshortfile|log.LstdFlags)
	debug_logger = log.New(io.Discard, "DEBUG: ", log.Lshortfile|log.LstdFlags)
)

var (
	InfoLog  = info_logger.Println
	ErrorLog = error_logger.Println
	FatalLog = fatal_logger.Fatalln
	WarnLog  = warn_logger.Println
	DebugLog = debug_logger.Println
)
