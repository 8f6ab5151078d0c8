package source

import "testing"

func TestSpan_ShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		shift    uint32
		expected Span
	}{
		{"shift normal span left by 5", Span{File: 1, Start: 10, End: 20}, 5, Span{File: 1, Start: 5, End: 15}},
		{"shift by 0", Span{File: 1, Start: 10, End: 20}, 0, Span{File: 1, Start: 10, End: 20}},
		{"shift equals start", Span{File: 1, Start: 10, End: 20}, 10, Span{File: 1, Start: 0, End: 10}},
		{"shift larger than start returns original", Span{File: 1, Start: 10, End: 20}, 15, Span{File: 1, Start: 10, End: 20}},
		{"zero-length span", Span{File: 1, Start: 10, End: 10}, 3, Span{File: 1, Start: 7, End: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.span.ShiftLeft(tt.shift)
			if result != tt.expected {
				t.Errorf("ShiftLeft() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestSpan_ContainsAndOverlaps(t *testing.T) {
	outer := Span{File: 1, Start: 10, End: 20}
	tests := []struct {
		name     string
		other    Span
		contains bool
		overlaps bool
	}{
		{"identical", Span{File: 1, Start: 10, End: 20}, true, true},
		{"inside", Span{File: 1, Start: 12, End: 15}, true, true},
		{"touching end", Span{File: 1, Start: 20, End: 25}, false, false},
		{"straddling start", Span{File: 1, Start: 5, End: 11}, false, true},
		{"other file", Span{File: 2, Start: 12, End: 15}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.other); got != tt.contains {
				t.Errorf("Contains(%v) = %v, want %v", tt.other, got, tt.contains)
			}
			if got := outer.Overlaps(tt.other); got != tt.overlaps {
				t.Errorf("Overlaps(%v) = %v, want %v", tt.other, got, tt.overlaps)
			}
		})
	}
}

func TestSpan_Rel(t *testing.T) {
	base := Span{File: 3, Start: 100, End: 200}
	got := Span{File: 3, Start: 110, End: 120}.Rel(base)
	if got.Start != 10 || got.End != 20 {
		t.Fatalf("Rel() = %+v, want 10-20", got)
	}
	if got.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", got.Len())
	}
}
