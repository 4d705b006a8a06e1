// Package logger builds the application's slog.Logger: JSON at info
// level by default, text at debug level for development.
package logger
