package filter

import (
	"testing"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
)

func TestParseTransactionFilter(t *testing.T) {
	tests := []struct {
		name       string
		filter     string
		wantClause string
		wantParams []any
	}{
		{
			name:   "empty filter",
			filter: "",
		},
		{
			name:       "equality on string field",
			filter:     `proposal_id = "prop-1"`,
			wantClause: "proposal_id = ?",
			wantParams: []any{"prop-1"},
		},
		{
			name:       "equality on type",
			filter:     `type = "distribution"`,
			wantClause: "type = ?",
			wantParams: []any{"distribution"},
		},
		{
			name:       "numeric comparison",
			filter:     `amount >= 10000`,
			wantClause: "amount >= ?",
			wantParams: []any{int64(10000)},
		},
		{
			name:       "conjunction",
			filter:     `type = "investment" AND amount > 500`,
			wantClause: "(type = ? AND amount > ?)",
			wantParams: []any{"investment", int64(500)},
		},
		{
			name:       "disjunction",
			filter:     `type = "refund" OR type = "distribution"`,
			wantClause: "(type = ? OR type = ?)",
			wantParams: []any{"refund", "distribution"},
		},
		{
			name:       "timestamp comparison",
			filter:     `occurred_at >= timestamp("2026-01-01T00:00:00Z")`,
			wantClause: "occurred_at >= ?",
			wantParams: []any{int64(1767225600000)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cond, err := ParseTransactionFilter(tc.filter)
			if err != nil {
				t.Fatalf("ParseTransactionFilter(%q) error = %v", tc.filter, err)
			}
			if cond.Clause != tc.wantClause {
				t.Fatalf("Clause = %q, want %q", cond.Clause, tc.wantClause)
			}
			if len(cond.Params) != len(tc.wantParams) {
				t.Fatalf("Params = %v, want %v", cond.Params, tc.wantParams)
			}
			for i := range cond.Params {
				if cond.Params[i] != tc.wantParams[i] {
					t.Fatalf("Params[%d] = %v (%T), want %v (%T)", i, cond.Params[i], cond.Params[i], tc.wantParams[i], tc.wantParams[i])
				}
			}
		})
	}
}

func TestParseTransactionFilterRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		filter string
	}{
		{name: "unknown field", filter: `color = "red"`},
		{name: "malformed expression", filter: `type = `},
		{name: "bare identifier", filter: `proposal_id`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTransactionFilter(tc.filter)
			if !apperrors.IsCode(err, apperrors.CodeFilterInvalid) {
				t.Fatalf("ParseTransactionFilter(%q) = %v, want %v", tc.filter, err, apperrors.CodeFilterInvalid)
			}
		})
	}
}
