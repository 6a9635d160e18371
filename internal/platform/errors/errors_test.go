package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	base := New(CodeProposalNotActive, "offering closed")
	other := New(CodeProposalNotActive, "different message")

	if !errors.Is(base, other) {
		t.Fatal("expected errors with the same code to match")
	}
	if errors.Is(base, New(CodeProposalNotFound, "missing")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodeUnknown, "persist offering", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found via errors.Is")
	}
	if err.Error() != "persist offering" {
		t.Fatalf("Error() = %q, want %q", err.Error(), "persist offering")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "domain error", err: New(CodeRateLimited, "slow down"), want: CodeRateLimited},
		{name: "wrapped domain error", err: fmt.Errorf("outer: %w", New(CodeTourNotFound, "missing")), want: CodeTourNotFound},
		{name: "plain error", err: errors.New("plain"), want: CodeUnknown},
		{name: "nil", err: nil, want: CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Fatalf("GetCode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandleErrorMapsToGRPCStatus(t *testing.T) {
	err := WithMetadata(CodeInvestmentBelowMinimum, "amount below minimum", map[string]string{"Minimum": "500"})

	st, ok := status.FromError(HandleError(err, ""))
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.InvalidArgument)
	}
	if st.Message() != "amount below minimum" {
		t.Fatalf("status message = %q", st.Message())
	}
}

func TestHandleErrorUnknown(t *testing.T) {
	st, ok := status.FromError(HandleError(errors.New("boom"), "en-US"))
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.Internal {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.Internal)
	}
}

func TestUserMessageTemplating(t *testing.T) {
	err := WithMetadata(CodeInvestmentBelowMinimum, "amount below minimum", map[string]string{"Minimum": "$500"})

	got := UserMessage(err, "en-US")
	want := "Investment is below the minimum of $500"
	if got != want {
		t.Fatalf("UserMessage = %q, want %q", got, want)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidTargetAmount, http.StatusBadRequest},
		{CodeProposalNotActive, http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeTourNotFound, http.StatusNotFound},
		{CodeSessionInvalid, http.StatusUnauthorized},
		{CodeUnauthorized, http.StatusForbidden},
		{CodeAssistantProviderFailure, http.StatusServiceUnavailable},
		{CodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Fatalf("%s HTTPStatus = %d, want %d", tt.code, got, tt.want)
		}
	}
}
