package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ClassYears is the ordered class-year vocabulary; index+1 is the class index.
var ClassYears = []string{"Freshman", "Sophomore", "Junior", "Senior", "Fifth Year", "Graduate"}

// ClassIndex returns the 1-based index of a class-year label, or 0 if the label is unknown.
func ClassIndex(label string) int {
	label = strings.TrimSpace(label)
	for i, l := range ClassYears {
		if strings.EqualFold(l, label) {
			return i + 1
		}
	}
	return 0
}

// ClassLabel returns the label for a class index clamped to the vocabulary.
func ClassLabel(idx int) string {
	if idx < 1 {
		idx = 1
	}
	if idx > len(ClassYears) {
		idx = len(ClassYears)
	}
	return ClassYears[idx-1]
}

// HistoricalClass projects the active-season class index onto a season yearDiff years earlier.
func HistoricalClass(activeIdx, yearDiff int) int {
	idx := activeIdx - yearDiff
	if idx < 1 {
		return 1
	}
	if idx > len(ClassYears) {
		return len(ClassYears)
	}
	return idx
}

// SeasonStartYear parses the start year out of a "2025-2026" season name.
func SeasonStartYear(name string) (int, error) {
	head, _, ok := strings.Cut(strings.TrimSpace(name), "-")
	if !ok {
		return 0, fmt.Errorf("season name %q is not <start>-<end>", name)
	}
	year, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, fmt.Errorf("season name %q: %w", name, err)
	}
	return year, nil
}
