package pagination

import (
	"slices"
	"testing"
)

func TestConcatStrategy(t *testing.T) {
	got := ConcatStrategy[int]{}.Merge(MergeInput[[]int]{
		All:        [][]int{{1, 2}, nil, {3}},
		MostRecent: []int{3},
	})
	if want := []int{1, 2, 3}; !slices.Equal(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}
}

func TestMostRecentStrategy(t *testing.T) {
	got := MostRecentStrategy[string]{}.Merge(MergeInput[string]{
		All:        []string{"a", "b"},
		MostRecent: "b",
	})
	if got != "b" {
		t.Errorf("Merge() = %q, want b", got)
	}
}
