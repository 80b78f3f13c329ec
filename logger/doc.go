// Package logger is the logging hook used by the parser.
//
// Callers supply a single [LogFunc] that receives the level, a message
// and alternating key/value pairs. Nothing is logged by default:
//
//	doc, err := reader.Parse(data, reader.WithLogger(logger.Slog(slog.Default())))
//
// Loggers are carried per document, so two documents parsed at the same
// time can log to different places.
package logger
