package crawler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrawlError(t *testing.T) {
	cause := errors.New("connection refused")
	err := classified(FailureUnreachable, "load portal", cause)

	assert.Equal(t, "unreachable at load portal: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestClassify_KeepsExistingClassification(t *testing.T) {
	inner := classified(FailureAuthentication, "post-login marker", errors.New("timeout"))
	wrapped := fmt.Errorf("run aborted: %w", inner)

	out := Classify(wrapped, FailureTransaction, "reconcile apply")
	assert.Equal(t, FailureAuthentication, out.Kind)
	assert.Equal(t, "post-login marker", out.Step)
}

func TestClassify_FallsBackForUnclassifiedErrors(t *testing.T) {
	out := Classify(errors.New("deadlock detected"), FailureTransaction, "reconcile apply")
	assert.Equal(t, FailureTransaction, out.Kind)
	assert.Equal(t, "reconcile apply", out.Step)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, FailureKind(""), KindOf(nil))
	assert.Equal(t, FailureKind(""), KindOf(errors.New("plain")))

	err := fmt.Errorf("outer: %w", classified(FailureDuplicateEntity, "reconcile staging", nil))
	assert.Equal(t, FailureDuplicateEntity, KindOf(err))
}
