package pagination_test

import (
	"errors"
	"testing"

	"blog-publication/internal/common/pagination"
)

func TestParsePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr error
	}{
		{name: "missing", raw: "", want: 1},
		{name: "blank", raw: "   ", want: 1},
		{name: "first", raw: "1", want: 1},
		{name: "third", raw: "3", want: 3},
		{name: "not a number", raw: "abc", want: 1},
		{name: "decimal", raw: "2.5", want: 1},
		{name: "zero", raw: "0", want: 0, wantErr: pagination.ErrInvalidPage},
		{name: "negative", raw: "-2", want: -2, wantErr: pagination.ErrInvalidPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pagination.ParsePage(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParsePage(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePage(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}
