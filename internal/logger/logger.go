package logger

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id between client and server.
const RequestIDHeader = "X-Request-ID"

// Logger is a logrus entry carrying the fields of its scope, such as a request id.
type Logger struct {
	*logrus.Entry
}

// Options controls formatting and verbosity.
type Options struct {
	// Environment "local" (or empty) gives colored text, anything else JSON.
	Environment string
	Level       string
	Output      io.Writer
}

// New returns a Logger writing to opts.Output, or stderr when it is nil.
// Unknown or empty levels log at info.
func New(opts Options) *Logger {
	base := logrus.New()

	if opts.Environment == "" || opts.Environment == "local" {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}

	if opts.Output != nil {
		base.SetOutput(opts.Output)
	} else {
		base.SetOutput(os.Stderr)
	}

	switch strings.ToLower(opts.Level) {
	case "trace":
		base.SetLevel(logrus.TraceLevel)
	case "debug":
		base.SetLevel(logrus.DebugLevel)
	case "warn":
		base.SetLevel(logrus.WarnLevel)
	case "error":
		base.SetLevel(logrus.ErrorLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}

	return &Logger{Entry: logrus.NewEntry(base)}
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *Logger {
	return New(Options{Output: io.Discard})
}

// RequestID returns the request id sent by the client, or a new one.
func RequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return id
	}
	return uuid.New().String()
}

// WithRequest attaches request metadata and returns an entry
func (l *Logger) WithRequest(r *http.Request, reqID string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"req_id":     reqID,
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote_ip":  r.RemoteAddr,
		"user_agent": r.UserAgent(),
	})
}

// WithError standardizes error logging
func (l *Logger) WithError(err error) *logrus.Entry {
	if err == nil {
		return l.Entry
	}
	return l.Entry.WithField("error", err.Error())
}
