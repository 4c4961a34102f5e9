// Package log is the structured logging facade used by every aesd component.
//
// # Overview
//
// Components receive a Logger and attach context with Field helpers. The
// BaseLogger is backed by a slog.Handler that feeds a Formatter (text or
// JSON) and one or more Outputs, so slog-aware code and the facade share one
// pipeline.
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.WithComponent("tcp")
//	l.Info("accepted connection", log.Str(log.ConnKey, "127.0.0.1:51234"))
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config: level, format,
// outputs (console, file, null), key redaction and per-message sampling.
//
// # Interop
//
// ToStdLogger and RedirectStdLog adapt the facade for libraries that expect a
// *log.Logger, such as net/http.Server.ErrorLog.
package log
