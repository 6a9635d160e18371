package pagination

import "testing"

func TestClampPageSize(t *testing.T) {
	cfg := PageSizeConfig{Default: 30, Max: 100}

	tests := []struct {
		name  string
		value int
		want  int
	}{
		{name: "zero uses default", value: 0, want: 30},
		{name: "negative uses default", value: -5, want: 30},
		{name: "in range passes through", value: 42, want: 42},
		{name: "above max clamps", value: 500, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPageSize(tt.value, cfg); got != tt.want {
				t.Fatalf("ClampPageSize(%d) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestClampPageSizeWithoutDefaults(t *testing.T) {
	if got := ClampPageSize(0, PageSizeConfig{}); got != 1 {
		t.Fatalf("ClampPageSize = %d, want 1", got)
	}
}

func TestNormalizeOrderBy(t *testing.T) {
	cfg := OrderByConfig{Default: "created_at desc", Allowed: []string{"created_at desc", "amount desc"}}

	got, err := NormalizeOrderBy("", cfg)
	if err != nil {
		t.Fatalf("NormalizeOrderBy error = %v", err)
	}
	if got != "created_at desc" {
		t.Fatalf("NormalizeOrderBy = %q, want default", got)
	}

	got, err = NormalizeOrderBy("amount desc", cfg)
	if err != nil {
		t.Fatalf("NormalizeOrderBy error = %v", err)
	}
	if got != "amount desc" {
		t.Fatalf("NormalizeOrderBy = %q", got)
	}

	if _, err := NormalizeOrderBy("amount; DROP TABLE", cfg); err == nil {
		t.Fatal("expected error for disallowed order_by")
	}
}
