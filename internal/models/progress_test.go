package models

import "testing"

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{name: "zero of four", completed: 0, total: 4, want: 0},
		{name: "one of four", completed: 1, total: 4, want: 25},
		{name: "two of four", completed: 2, total: 4, want: 50},
		{name: "three of four", completed: 3, total: 4, want: 75},
		{name: "four of four", completed: 4, total: 4, want: 100},
		{name: "floors fractional progress", completed: 1, total: 3, want: 33},
		{name: "floors two thirds", completed: 2, total: 3, want: 66},
		{name: "clamps over-complete", completed: 5, total: 4, want: 100},
		{name: "zero total is zero progress", completed: 0, total: 0, want: 0},
		{name: "zero total ignores completed", completed: 3, total: 0, want: 0},
		{name: "negative total is zero", completed: 1, total: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressPercent(tt.completed, tt.total); got != tt.want {
				t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestCourseProgress_SectionIDs(t *testing.T) {
	t.Run("empty column decodes to nil", func(t *testing.T) {
		var p CourseProgress
		ids, err := p.SectionIDs()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ids != nil {
			t.Errorf("expected nil, got %v", ids)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		var p CourseProgress
		if err := p.SetSectionIDs([]uint{3, 1, 7}); err != nil {
			t.Fatalf("SetSectionIDs: %v", err)
		}
		ids, err := p.SectionIDs()
		if err != nil {
			t.Fatalf("SectionIDs: %v", err)
		}
		if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 7 {
			t.Errorf("got %v, want [3 1 7]", ids)
		}
	})
}
