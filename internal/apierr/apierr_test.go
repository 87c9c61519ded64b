package apierr

import (
	"errors"
	"testing"
)

func TestKindOf_DirectError(t *testing.T) {
	err := New(InvalidArgument, "top_k must be positive")
	if got := KindOf(err); got != InvalidArgument {
		t.Errorf("KindOf() = %q, want %q", got, InvalidArgument)
	}
}

func TestKindOf_WrappedError(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(UpstreamUnavailable, cause, "dial qdrant")
	wrapped := errors.New("handler: " + err.Error())

	if got := KindOf(err); got != UpstreamUnavailable {
		t.Errorf("KindOf(err) = %q, want %q", got, UpstreamUnavailable)
	}
	if got := KindOf(wrapped); got != Internal {
		t.Errorf("KindOf(plain wrapped string) = %q, want %q", got, Internal)
	}
	if !errors.Is(err, err) {
		t.Error("expected err to equal itself under errors.Is")
	}
	if errors.Unwrap(err) != cause {
		t.Error("expected Unwrap to return the wrapped cause")
	}
}

func TestKindOf_NonTaxonomyErrorDefaultsToInternal(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != Internal {
		t.Errorf("KindOf() = %q, want %q", got, Internal)
	}
}

func TestError_MessageIncludesCauseWhenPresent(t *testing.T) {
	cause := errors.New("timeout")
	err := Wrap(InferenceError, cause, "run cross-encoder inference")
	if got := err.Error(); got == "" {
		t.Fatal("Error() returned empty string")
	}

	bare := New(InferenceError, "run cross-encoder inference")
	if err.Error() == bare.Error() {
		t.Error("expected wrapped error message to differ from bare message")
	}
}
