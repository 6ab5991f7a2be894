package logger

import (
	"context"
	"unicode/utf8"
)

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Fields flow through context enrichment, so handlers and workers set business
// context (visit_id, request_id, etc.) once and every log statement carries it.
type LogFields struct {
	VisitID   *int64  // Visit being evaluated or persisted
	RequestID *string // X-Request-ID of the HTTP request
	MessageID *string // Redis stream message ID
	Language  *string // Evaluation language ("ar" or "en")
	Component string  // Component name (OTel semantic convention style, e.g., "eleot.worker.persist")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

// mergeFields merges two LogFields, preferring non-nil/non-empty values from 'new'.
func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.VisitID != nil {
		result.VisitID = new.VisitID
	}
	if new.RequestID != nil {
		result.RequestID = new.RequestID
	}
	if new.MessageID != nil {
		result.MessageID = new.MessageID
	}
	if new.Language != nil {
		result.Language = new.Language
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{VisitID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate cuts s to maxLen runes, appending "..." if truncated.
// Arabic error text is never split mid-rune.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
