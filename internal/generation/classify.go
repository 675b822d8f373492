package generation

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

// OutcomeKind drives the fallback loop.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeQuotaExceeded
	OutcomeTransient
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeQuotaExceeded:
		return "quota_exceeded"
	case OutcomeTransient:
		return "transient_error"
	case OutcomeFatal:
		return "fatal_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single backend attempt.
type Outcome struct {
	Kind    OutcomeKind
	Text    string
	Message string
}

var (
	quotaTerms = []string{
		"quota",
		"429",
		"resource exhausted",
		"resource_exhausted",
		"resource has been exhausted",
		"rate limit",
		"ratelimit",
		"too many requests",
	}
	transientTerms = []string{
		"api",
		"404",
		"connection",
		"timeout",
		"unavailable",
		"eof",
	}
)

// Classify maps a backend error to an outcome kind. Status codes are used
// when the backend adapter attached one; otherwise the message is matched
// against quota and connectivity vocabulary. The substring match is an
// approximation and is kept in this one function so it can be replaced by
// structured codes.
func Classify(err error) OutcomeKind {
	if err == nil {
		return OutcomeSuccess
	}

	var be *BackendError
	if errors.As(err, &be) && be.StatusCode != 0 {
		switch {
		case be.StatusCode == http.StatusTooManyRequests:
			return OutcomeQuotaExceeded
		case be.StatusCode == http.StatusNotFound,
			be.StatusCode == http.StatusRequestTimeout,
			be.StatusCode >= 500:
			return OutcomeTransient
		}
	}

	msg := strings.ToLower(err.Error())
	for _, term := range quotaTerms {
		if strings.Contains(msg, term) {
			return OutcomeQuotaExceeded
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return OutcomeTransient
	}

	for _, term := range transientTerms {
		if strings.Contains(msg, term) {
			return OutcomeTransient
		}
	}
	return OutcomeFatal
}
