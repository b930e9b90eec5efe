// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Handlers check the shape of a request (required fields, length bounds) with
// struct tags. Services enforce the rules every caller needs regardless of
// transport: text is sanitised and re-checked, ownership is verified, and
// list sizes are clamped. Errors are apperror values; the handler layer turns
// them into status codes.
package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/sanitize"
)

// Field bounds, in characters.
const (
	MaxCategoryNameLength = 50
	MaxTopicNameLength    = 100
	MaxPostTextLength     = 1000
	MaxReactionLength     = 16
	MaxReportReasonLength = 500
)

// MaxSearchResults caps a search. Plain lists use repository.MaxListLimit.
const MaxSearchResults = 50

// cleanText sanitises s and checks that something of at most max characters
// is left. A value made only of markup is rejected as empty.
func cleanText(field, s string, max int) (string, error) {
	s = sanitize.Text(s)
	if s == "" {
		return "", apperror.ValidationFailed(field, fmt.Sprintf("%s is required", field))
	}
	if utf8.RuneCountInString(s) > max {
		return "", apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return s, nil
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return apperror.ValidationFailed(field, fmt.Sprintf("%s must be positive", field))
	}
	return nil
}
