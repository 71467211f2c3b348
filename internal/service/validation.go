package service

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/station-vendor-service/internal/pagination"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func v() *validator.Validate {
	validateOnce.Do(func() { validate = validator.New() })
	return validate
}

func isValidEmail(email string) bool {
	return v().Var(email, "required,email,max=254") == nil
}

// lengthBetween counts runes, not bytes, so station names in any script are measured fairly.
func lengthBetween(s string, lo, hi int) bool {
	n := len([]rune(s))
	return n >= lo && n <= hi
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// normalizeParams is the guard for callers that build Params by hand instead of resolving them.
func normalizeParams(p pagination.Params) pagination.Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = pagination.DefaultLimit
	}
	p.Skip = (p.Page - 1) * p.Limit
	return p
}

func positiveID(field string, id int64) []FieldError {
	if id <= 0 {
		return []FieldError{{Field: field, Message: "must be > 0"}}
	}
	return nil
}
