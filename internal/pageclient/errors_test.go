package pageclient

import (
	"errors"
	"fmt"
	"testing"

	"github.com/starford/cosense-mcp/internal/apperr"
	"github.com/starford/cosense-mcp/internal/cosense"
)

func TestMapPushError(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		wantKind apperr.Kind
		wantMsg  string
	}{
		{"unauthorized text", "Unauthorized: 401", apperr.KindUnauthorized, "Invalid or expired cookie"},
		{"bare 401", "status 401", apperr.KindUnauthorized, "Invalid or expired cookie"},
		{"not found text", "NotFoundError: gone", apperr.KindNotFound, "Page not found"},
		{"bare 404", "HTTP 404", apperr.KindNotFound, "Page not found"},
		{"duplicate", "DuplicateTitleError: Page already exists", apperr.KindConflict, "Page title already exists"},
		{"verbatim", "Something else", apperr.KindUnknown, "Something else"},
		{"push error value", cosense.PushError("Unauthorized"), apperr.KindUnauthorized, "Invalid or expired cookie"},
		{"wrapped push error", fmt.Errorf("commit: %w", cosense.PushError("DuplicateTitleError")), apperr.KindConflict, "Page title already exists"},
		{"rest failure folded to text", cosense.PushError("NotLoggedInError: Not logged in (401)"), apperr.KindUnauthorized, "Invalid or expired cookie"},
		{"plain error keeps message", errors.New("Unauthorized but local"), apperr.KindUnknown, "Unauthorized but local"},
		{"object", struct{ Code int }{Code: 3}, apperr.KindUnknown, `{"Code":3}`},
		{"nil", nil, apperr.KindUnknown, "Unknown error"},
		{"func", func() {}, apperr.KindUnknown, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapPushError(tt.in)
			if got.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", got.Message, tt.wantMsg)
			}
		})
	}
}

func TestRateLimitedIsNeverProduced(t *testing.T) {
	inputs := []any{"429 Too Many Requests", "RateLimitError", errors.New("rate limited")}
	for _, in := range inputs {
		if k := mapPushError(in).Kind; k == apperr.KindRateLimited {
			t.Errorf("mapPushError(%v) = RATE_LIMITED", in)
		}
	}
	if k := mapCosenseError(&cosense.RemoteError{Name: "TooManyRequestsError"}).Kind; k != apperr.KindUnknown {
		t.Errorf("throttling maps to %q, want UNKNOWN", k)
	}
}
