package solver

// Route is the contract shared by RawRoute and TWRoute. Validity
// predicates are pure queries; Add must only follow a true predicate.
type Route interface {
	VehicleRank() int
	Size() int
	Visits() []int
	Add(in *Input, jobRank, position int)
	UpdateAmounts(in *Input)
	IsValidAdditionForCapacity(in *Input, pickup, delivery Amount, position int) bool
	IsValidAdditionForTW(in *Input, jobRank, position int) bool
}

// Solution holds one route per vehicle, indexed by vehicle rank, plus
// the jobs no route could take.
type Solution struct {
	Routes     []Route
	Unassigned []int // ascending job ranks
}

// Cost recomputes the total travel cost of all routes from the matrix.
func (s *Solution) Cost(in *Input) Cost {
	var total Cost
	for _, r := range s.Routes {
		total += RouteCost(in, r.VehicleRank(), r.Visits())
	}
	return total
}

// AssignedCount returns the number of assigned jobs.
func (s *Solution) AssignedCount() int {
	n := 0
	for _, r := range s.Routes {
		n += r.Size()
	}
	return n
}

// RawRoutes returns the concrete capacity-only routes when the solution
// was built with VariantCapacity.
func (s *Solution) RawRoutes() ([]*RawRoute, bool) {
	out := make([]*RawRoute, len(s.Routes))
	for i, r := range s.Routes {
		rr, ok := r.(*RawRoute)
		if !ok {
			return nil, false
		}
		out[i] = rr
	}
	return out, true
}
