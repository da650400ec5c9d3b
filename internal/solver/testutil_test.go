package solver

import "testing"

// lineMatrix builds a symmetric matrix with cost |coords[i]-coords[j]|.
func lineMatrix(coords []int64) Matrix {
	m := NewMatrix(len(coords))
	for i := range coords {
		for j := range coords {
			d := coords[i] - coords[j]
			if d < 0 {
				d = -d
			}
			m[i][j] = d
		}
	}
	return m
}

func intPtr(i int) *int { return &i }

func mustInput(t *testing.T, jobs []Job, vehicles []Vehicle, m Matrix) *Input {
	t.Helper()
	in, err := NewInput(jobs, vehicles, m)
	if err != nil {
		t.Fatalf("NewInput: %v", err)
	}
	return in
}

func sameRanks(got []int, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
