package models

import "testing"

func TestClassIndex(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"Freshman", 1},
		{"junior", 3},
		{" Fifth Year ", 5},
		{"Graduate", 6},
		{"Redshirt", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ClassIndex(tt.label); got != tt.want {
			t.Errorf("ClassIndex(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestHistoricalClass(t *testing.T) {
	tests := []struct {
		name      string
		activeIdx int
		yearDiff  int
		want      int
	}{
		{"junior two seasons back is freshman", 3, 2, 1},
		{"never below freshman", 2, 4, 1},
		{"future season clamps to graduate", 5, -3, 6},
		{"same season", 4, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HistoricalClass(tt.activeIdx, tt.yearDiff); got != tt.want {
				t.Errorf("HistoricalClass(%d, %d) = %d, want %d", tt.activeIdx, tt.yearDiff, got, tt.want)
			}
		})
	}
	if got := ClassLabel(HistoricalClass(ClassIndex("Junior"), 2025-2023)); got != "Freshman" {
		t.Errorf("Junior in 2025 projected onto 2023 = %q, want Freshman", got)
	}
}

func TestSeasonStartYear(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"2025-2026", 2025, false},
		{" 2023 - 2024", 2023, false},
		{"Fall 2024", 0, true},
		{"abcd-2024", 0, true},
	}
	for _, tt := range tests {
		got, err := SeasonStartYear(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("SeasonStartYear(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("SeasonStartYear(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
