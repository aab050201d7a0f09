package services

import (
	"context"
	"log/slog"
	"time"
)

// ServiceLogger records one line per service operation with its outcome and duration
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, component string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", "quiz-service", "component", component),
	}
}

// ===== OPERATION LOGGING =====

// LogOperation logs caller mistakes at warn level and everything else that failed at error level
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, userID string, resourceID uint, start time.Time, err error) {
	level, status := classify(err)
	attrs := []any{
		"operation", operation,
		"user_id", userID,
		"resource_id", resourceID,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	l.logger.Log(ctx, level, "Service operation", attrs...)
}

func classify(err error) (slog.Level, string) {
	switch {
	case err == nil:
		return slog.LevelInfo, "success"
	case IsValidation(err) || IsBusinessRule(err):
		return slog.LevelWarn, "validation_error"
	case IsForbidden(err):
		return slog.LevelWarn, "forbidden"
	case IsNotFound(err):
		return slog.LevelWarn, "not_found"
	default:
		return slog.LevelError, "error"
	}
}
