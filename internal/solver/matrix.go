package solver

// Cost is a scalar travel cost between two locations.
type Cost = int64

// Gain is a signed cost reduction.
type Gain = int64

// Duration is a time quantity in seconds.
type Duration = int64

// Matrix is a square read-only travel-cost lookup between location
// indices.
type Matrix [][]Cost

// NewMatrix allocates an n x n zero matrix.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]Cost, n)
	}
	return m
}

// Cost returns the travel cost from location i to location j.
func (m Matrix) Cost(i, j int) Cost { return m[i][j] }

// Size returns the number of locations.
func (m Matrix) Size() int { return len(m) }
