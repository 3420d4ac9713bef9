package errorutil

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFound("ticket", map[string]any{"id": "7"}))

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped not-found to match sentinel")
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatalf("not-found must not match forbidden")
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("unexpected kind %q", KindOf(err))
	}
	if got := ToDomainError(err).Message; got != "ticket not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestForeignErrorsBecomeUnexpected(t *testing.T) {
	cause := errors.New("connection reset")
	domainErr := ToDomainError(cause)

	if domainErr.Kind != KindUnexpected || domainErr.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected conversion %+v", domainErr)
	}
	if !errors.Is(domainErr, cause) {
		t.Fatalf("cause should stay reachable")
	}
	if domainErr.Message != "internal server error" {
		t.Fatalf("cause must not leak into the message: %q", domainErr.Message)
	}
	if ToDomainError(nil) != nil || KindOf(nil) != "" {
		t.Fatalf("nil should stay nil")
	}
}
