package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crytic/sollink/logging/colors"
	"github.com/rs/zerolog"
)

// GlobalLogger describes a Logger that is disabled by default and is instantiated in this package's init. Each
// module/package should create its own sub-logger, which allows log output to be filtered by originating module.
var GlobalLogger *Logger

// Logger describes a custom logging object that can log events to any arbitrary channel and can handle specialized
// output to console as well.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// multiLogger describes a logger that will be used to output logs to any arbitrary channel(s) in structured
	// format.
	multiLogger zerolog.Logger

	// consoleLogger describes a logger that will be used to output unstructured output to console.
	// A separate logger is kept for console so that specialized formatting and coloring can be applied there.
	consoleLogger zerolog.Logger

	// writers describes the list of io.Writer objects where structured log output goes.
	writers []io.Writer
}

// LogFormat describes what format to log in.
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format.
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format.
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data.
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. The Logger can output to console, if
// enabled, and output logs to any number of arbitrary io.Writer channels.
func NewLogger(level zerolog.Level, consoleEnabled bool, writers ...io.Writer) *Logger {
	// The two base loggers start out disabled so that nil dereferences cannot occur down the line.
	baseMultiLogger := zerolog.New(os.Stdout).Level(zerolog.Disabled)
	baseConsoleLogger := zerolog.New(os.Stdout).Level(zerolog.Disabled)

	// If we are provided a list of writers, update the multi logger
	if len(writers) > 0 {
		baseMultiLogger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	}

	// If console logging is enabled, update the console logger
	if consoleEnabled {
		consoleWriter := setupDefaultFormatting(zerolog.ConsoleWriter{Out: os.Stdout}, level)
		baseConsoleLogger = zerolog.New(consoleWriter).Level(level)
	}

	return &Logger{
		level:         level,
		multiLogger:   baseMultiLogger,
		consoleLogger: baseConsoleLogger,
		writers:       writers,
	}
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. The expected use of
// this function is for each package to have its own logger so that parsing of logs is "grep-able" based on the key.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	subMultiLogger := l.multiLogger.With().Str(key, value).Logger()
	subConsoleLogger := l.consoleLogger.With().Str(key, value).Logger()
	return &Logger{
		level:         l.level,
		multiLogger:   subMultiLogger,
		consoleLogger: subConsoleLogger,
		writers:       l.writers,
	}
}

// AddWriter will add a writer to the list of channels where structured log output is sent. Duplicate writers are
// ignored.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat) {
	for _, w := range l.writers {
		if writer == w {
			return
		}
	}

	// If unstructured output is requested, wrap the writer into a console writer with no ANSI coloring.
	if format == UNSTRUCTURED {
		writer = zerolog.ConsoleWriter{Out: writer, NoColor: true}
	}

	l.writers = append(l.writers, writer)
	l.multiLogger = zerolog.New(zerolog.MultiLevelWriter(l.writers...)).Level(l.level).With().Timestamp().Logger()
}

// RemoveWriter will remove a writer from the list of writers that the logger manages. If the writer does not
// exist, this function is a no-op.
func (l *Logger) RemoveWriter(writer io.Writer) {
	for i, w := range l.writers {
		if writer == w {
			l.writers = append(l.writers[:i], l.writers[i+1:]...)
			l.multiLogger = zerolog.New(zerolog.MultiLevelWriter(l.writers...)).Level(l.level).With().Timestamp().Logger()
			return
		}
	}
}

// Level will get the log level of the Logger.
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger.
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.multiLogger = l.multiLogger.Level(level)
	l.consoleLogger = l.consoleLogger.Level(level)
}

// Trace is a wrapper function that will log a trace event.
func (l *Logger) Trace(args ...any) {
	l.emit(l.consoleLogger.Trace(), l.multiLogger.Trace(), args...)
}

// Debug is a wrapper function that will log a debug event.
func (l *Logger) Debug(args ...any) {
	l.emit(l.consoleLogger.Debug(), l.multiLogger.Debug(), args...)
}

// Info is a wrapper function that will log an info event.
func (l *Logger) Info(args ...any) {
	l.emit(l.consoleLogger.Info(), l.multiLogger.Info(), args...)
}

// Warn is a wrapper function that will log a warning event.
func (l *Logger) Warn(args ...any) {
	l.emit(l.consoleLogger.Warn(), l.multiLogger.Warn(), args...)
}

// Error is a wrapper function that will log an error event.
func (l *Logger) Error(args ...any) {
	l.emit(l.consoleLogger.Error(), l.multiLogger.Error(), args...)
}

// Panic is a wrapper function that will log a panic event.
func (l *Logger) Panic(args ...any) {
	l.emit(l.consoleLogger.Panic(), l.multiLogger.Panic(), args...)
}

// emit builds the console and structured messages out of the variadic arguments and sends the two events off to
// their respective channels.
func (l *Logger) emit(consoleLog *zerolog.Event, multiLog *zerolog.Event, args ...any) {
	consoleMsg, multiMsg, err, info := buildMsgs(args...)

	// Chain the error. Stack traces are added when the logger runs at debug verbosity or below.
	consoleLog.Err(err)
	multiLog.Err(err)
	if l.level <= zerolog.DebugLevel {
		consoleLog.Stack()
		multiLog.Stack()
	}

	// Chain any structured log info provided.
	if info != nil {
		consoleLog.Any("info", info)
		multiLog.Any("info", info)
	}

	// Sending the messages also sends the log events out to their respective streams. The multi-logger message is
	// deferred so that all channels receive the log even when a panic event unwinds the stack.
	defer multiLog.Msg(multiMsg)
	consoleLog.Msg(consoleMsg)
}

// buildMsgs takes in a variadic list of arguments of any type and returns two strings and, optionally, an error
// and a StructuredLogInfo object. The first string is a colorized string for console logging while the second is a
// non-colorized one for file/structured logging. The error and the StructuredLogInfo can be used to add additional
// context to log messages.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	// Guard clause
	if len(args) == 0 {
		return "", "", nil, nil
	}

	// Initialize the base color context, the string buffers and the structured log info object
	colorCtx := colors.Reset
	consoleOutput := make([]string, 0)
	fileOutput := make([]string, 0)
	var info StructuredLogInfo
	var err error

	// Iterate through each argument in the list and switch on type
	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			// If the argument is a color function, switch the current color context
			colorCtx = t
		case StructuredLogInfo:
			// Note that only one structured log info can be provided for each log message
			info = t
		case error:
			// Note that only one error can be provided for each log message
			err = t
		default:
			// In the base case, append the object to the two string buffers. The console string buffer gets the
			// current color context applied to it.
			consoleOutput = append(consoleOutput, colorCtx(t))
			fileOutput = append(fileOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(fileOutput, ""), err, info
}

// setupDefaultFormatting will update the console logger's formatting to the sollink standard.
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	// Get rid of the timestamp for console output
	writer.FormatTimestamp = func(i interface{}) string {
		return ""
	}

	// We will define a custom format for each level
	writer.FormatLevel = func(i any) string {
		// Create a level object for better switch logic
		level, err := zerolog.ParseLevel(i.(string))
		if err != nil {
			panic(fmt.Sprintf("unable to parse the log level: %v", err))
		}

		// Switch on the level and return a custom, colored string
		switch level {
		case zerolog.TraceLevel:
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colors.GreenBold(colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return colors.RedBold(zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return colors.RedBold(zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return colors.RedBold(zerolog.LevelPanicValue)
		default:
			return i.(string)
		}
	}

	// Above debug level the `module` component is dropped from console output to keep it readable.
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}

	return writer
}
