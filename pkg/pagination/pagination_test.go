package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("zero limit should default, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("negative limit should default, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("limit should cap at %d, got %d", MaxLimit, got)
	}
	if got := NormalizeLimit(7); got != 7 {
		t.Fatalf("valid limit should pass through, got %d", got)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		length     int
		params     Params
		start, end int
	}{
		{name: "defaults", length: 10, params: Params{}, start: 0, end: 10},
		{name: "limit clips", length: 10, params: Params{Limit: 3}, start: 0, end: 3},
		{name: "offset walks", length: 10, params: Params{Limit: 3, Offset: 8}, start: 8, end: 10},
		{name: "offset past end", length: 4, params: Params{Limit: 3, Offset: 9}, start: 4, end: 4},
		{name: "negative offset", length: 4, params: Params{Limit: 2, Offset: -1}, start: 0, end: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(tt.length, tt.params)
			if start != tt.start || end != tt.end {
				t.Fatalf("Window(%d, %+v) = (%d, %d), want (%d, %d)", tt.length, tt.params, start, end, tt.start, tt.end)
			}
		})
	}
}
