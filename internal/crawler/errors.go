package crawler

import (
	"errors"
	"fmt"
)

// FailureKind is the fixed classification every failed run maps to.
// Exactly one is produced per failed run.
type FailureKind string

const (
	// FailureUnreachable covers network, DNS and page-load failures.
	FailureUnreachable FailureKind = "unreachable"
	// FailureAuthentication covers rejected logins and post-login marker
	// timeouts. The two are deliberately conflated: the crawl cannot tell
	// a wrong password from changed markup behind the login form.
	FailureAuthentication FailureKind = "authentication_failed"
	// FailureSelectorNotFound means expected page structure was absent,
	// typically a supplier-side markup change.
	FailureSelectorNotFound FailureKind = "selector_not_found"
	// FailureDuplicateEntity means a natural-key collision was detected
	// while staging the reconciliation batch.
	FailureDuplicateEntity FailureKind = "duplicate_entity"
	// FailureTransaction means the catalog store failed to apply the batch.
	FailureTransaction FailureKind = "transaction_failed"
)

// CrawlError is a classified failure surfaced by a crawl run.
type CrawlError struct {
	Kind FailureKind
	Step string
	Err  error
}

func (e *CrawlError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s at %s", e.Kind, e.Step)
	}
	return fmt.Sprintf("%s at %s: %v", e.Kind, e.Step, e.Err)
}

func (e *CrawlError) Unwrap() error {
	return e.Err
}

func classified(kind FailureKind, step string, err error) *CrawlError {
	return &CrawlError{Kind: kind, Step: step, Err: err}
}

// Classify returns the classification of err, wrapping unclassified
// errors under the given fallback kind so no failure leaves the run
// untyped.
func Classify(err error, fallback FailureKind, step string) *CrawlError {
	var ce *CrawlError
	if errors.As(err, &ce) {
		return ce
	}
	return classified(fallback, step, err)
}

// KindOf reports the classification of err, or an empty kind for nil and
// unclassified errors.
func KindOf(err error) FailureKind {
	var ce *CrawlError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
