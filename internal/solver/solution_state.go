package solver

// SolutionState caches per-route quantities consumed by the local
// search. EdgeCostAroundEdge(v, r) is the cost of the edge entering
// position r plus the cost of the edge leaving position r+1, so the
// saving from removing the two-job edge at [r, r+1] is available
// locally. Any mutation of a route invalidates its cache; callers must
// refresh every vehicle an operator reports in UpdateCandidates.
type SolutionState struct {
	edgeCostsAroundEdge [][]Gain
}

// NewSolutionState returns an empty cache for nbVehicles routes.
func NewSolutionState(nbVehicles int) *SolutionState {
	return &SolutionState{edgeCostsAroundEdge: make([][]Gain, nbVehicles)}
}

// Setup fills the cache for all routes.
func (s *SolutionState) Setup(in *Input, routes []*RawRoute) {
	for _, r := range routes {
		s.UpdateEdgeCosts(in, r.Route, r.VehicleRank())
	}
}

// UpdateEdgeCosts recomputes the edge-cost cache for one vehicle from
// its current visit sequence.
func (s *SolutionState) UpdateEdgeCosts(in *Input, route []int, vehicleRank int) {
	v := &in.Vehicles[vehicleRank]
	m := in.Matrix()

	n := len(route)
	if n < 2 {
		s.edgeCostsAroundEdge[vehicleRank] = nil
		return
	}
	costs := make([]Gain, n-1)
	for r := 0; r+1 < n; r++ {
		var previousCost, nextCost Gain
		if r == 0 {
			if v.HasStart() {
				previousCost = m.Cost(*v.Start, in.Jobs[route[0]].Index)
			}
		} else {
			previousCost = m.Cost(in.Jobs[route[r-1]].Index, in.Jobs[route[r]].Index)
		}
		if r+1 == n-1 {
			if v.HasEnd() {
				nextCost = m.Cost(in.Jobs[route[r+1]].Index, *v.End)
			}
		} else {
			nextCost = m.Cost(in.Jobs[route[r+1]].Index, in.Jobs[route[r+2]].Index)
		}
		costs[r] = previousCost + nextCost
	}
	s.edgeCostsAroundEdge[vehicleRank] = costs
}

// EdgeCostAroundEdge returns the cached cost around the edge starting
// at rank r in vehicleRank's route.
func (s *SolutionState) EdgeCostAroundEdge(vehicleRank, r int) Gain {
	return s.edgeCostsAroundEdge[vehicleRank][r]
}
