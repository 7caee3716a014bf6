package apperr

import (
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    *Error
		code   string
		status int
	}{
		{name: "invalid input", err: InvalidInput("vote must be 1 or -1"), code: CodeInvalidInput, status: http.StatusBadRequest},
		{name: "not found", err: NotFound("question not found"), code: CodeNotFound, status: http.StatusNotFound},
		{name: "referential mismatch", err: ReferentialMismatch("answer does not belong to this question"), code: CodeReferentialMismatch, status: http.StatusNotFound},
		{name: "forbidden", err: Forbidden("not the author"), code: CodeForbidden, status: http.StatusForbidden},
		{name: "already accepted", err: AlreadyAccepted("an answer is already accepted"), code: CodeAlreadyAccepted, status: http.StatusConflict},
		{name: "conflict", err: Conflict("concurrent write"), code: CodeConflict, status: http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Fatalf("code = %q, want %q", tc.err.Code, tc.code)
			}
			if tc.err.Status != tc.status {
				t.Fatalf("status = %d, want %d", tc.err.Status, tc.status)
			}
			if !Is(tc.err, tc.code) {
				t.Fatalf("Is(err, %q) = false", tc.code)
			}
		})
	}
}

func TestStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("casting vote: %w", Forbidden("nope"))
	if got := Status(wrapped); got != http.StatusForbidden {
		t.Fatalf("Status = %d, want %d", got, http.StatusForbidden)
	}
	if got := Status(fmt.Errorf("plain")); got != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want %d", got, http.StatusInternalServerError)
	}
}
