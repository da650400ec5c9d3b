package solver

// AdditionCost returns the travel-cost increase from inserting jobRank
// at rank in the given visit sequence for vehicle v. Depot edges are
// substituted at the boundaries and dropped when the vehicle has no
// start or end.
func AdditionCost(in *Input, m Matrix, jobRank int, v *Vehicle, route []int, rank int) Gain {
	jobIndex := in.Jobs[jobRank].Index

	var previousCost, nextCost, oldEdgeCost Gain
	if rank == len(route) {
		if len(route) == 0 {
			// Only job in the route.
			if v.HasStart() {
				previousCost = m.Cost(*v.Start, jobIndex)
			}
			if v.HasEnd() {
				nextCost = m.Cost(jobIndex, *v.End)
			}
		} else {
			// Appending after the last job.
			pIndex := in.Jobs[route[rank-1]].Index
			previousCost = m.Cost(pIndex, jobIndex)
			if v.HasEnd() {
				nextCost = m.Cost(jobIndex, *v.End)
				oldEdgeCost = m.Cost(pIndex, *v.End)
			}
		}
	} else {
		nIndex := in.Jobs[route[rank]].Index
		nextCost = m.Cost(jobIndex, nIndex)
		if rank == 0 {
			if v.HasStart() {
				previousCost = m.Cost(*v.Start, jobIndex)
				oldEdgeCost = m.Cost(*v.Start, nIndex)
			}
		} else {
			pIndex := in.Jobs[route[rank-1]].Index
			previousCost = m.Cost(pIndex, jobIndex)
			oldEdgeCost = m.Cost(pIndex, nIndex)
		}
	}
	return previousCost + nextCost - oldEdgeCost
}

// RouteCost recomputes the travel cost of a visit sequence for the
// vehicle at vehicleRank from the matrix, including depot edges.
func RouteCost(in *Input, vehicleRank int, route []int) Cost {
	v := &in.Vehicles[vehicleRank]
	m := in.Matrix()
	if len(route) == 0 {
		return 0
	}
	var total Cost
	if v.HasStart() {
		total += m.Cost(*v.Start, in.Jobs[route[0]].Index)
	}
	for i := 0; i+1 < len(route); i++ {
		total += m.Cost(in.Jobs[route[i]].Index, in.Jobs[route[i+1]].Index)
	}
	if v.HasEnd() {
		total += m.Cost(in.Jobs[route[len(route)-1]].Index, *v.End)
	}
	return total
}
