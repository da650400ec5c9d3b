package solver

import (
	"math"
	"sort"
)

// Init selects how a vehicle's route is seeded before greedy insertion.
type Init int

const (
	InitNone Init = iota
	InitHigherAmount
	InitEarliestDeadline
	InitFurthest
	InitNearest
)

// Strategy selects the constructive heuristic.
type Strategy int

const (
	StrategyBasic Strategy = iota
	StrategyDynamicVehicleChoice
)

// Variant selects the route type the heuristic builds.
type Variant int

const (
	VariantCapacity Variant = iota
	VariantTimeWindow
)

const maxCost Cost = math.MaxInt64

// Construct builds an initial solution from nothing: one route per
// vehicle, every job assigned to at most one route, capacity and time
// windows respected. lambda weighs each job's empty-route detour cost
// against its raw insertion cost, pulling far-out jobs into routes the
// plain greedy would leave unassigned.
func Construct(in *Input, variant Variant, strategy Strategy, init Init, lambda float64) *Solution {
	routes := make([]Route, len(in.Vehicles))
	for v := range in.Vehicles {
		switch variant {
		case VariantTimeWindow:
			routes[v] = NewTWRoute(in, v)
		default:
			routes[v] = NewRawRoute(in, v)
		}
	}

	assigned := make([]bool, len(in.Jobs))
	switch strategy {
	case StrategyDynamicVehicleChoice:
		dynamicVehicleChoice(in, routes, init, lambda, assigned)
	default:
		basic(in, routes, init, lambda, assigned)
	}

	sol := &Solution{Routes: routes}
	for j := range in.Jobs {
		if !assigned[j] {
			sol.Unassigned = append(sol.Unassigned, j)
		}
	}
	return sol
}

// emptyRouteCost is the depot-to-depot detour of serving only jobRank
// with the given vehicle.
func emptyRouteCost(in *Input, v *Vehicle, jobRank int) Cost {
	m := in.Matrix()
	jIndex := in.Jobs[jobRank].Index
	var c Cost
	if v.HasStart() {
		c += m.Cost(*v.Start, jIndex)
	}
	if v.HasEnd() {
		c += m.Cost(jIndex, *v.End)
	}
	return c
}

// basic fills vehicles one by one in decreasing-capacity order. Per-job
// detour costs come from vehicle 0 only, which is exact for homogeneous
// fleets and a deliberate approximation otherwise.
func basic(in *Input, routes []Route, init Init, lambda float64, assigned []bool) {
	vehiclesRanks := make([]int, len(in.Vehicles))
	for i := range vehiclesRanks {
		vehiclesRanks[i] = i
	}
	sort.SliceStable(vehiclesRanks, func(a, b int) bool {
		lhs := &in.Vehicles[vehiclesRanks[a]]
		rhs := &in.Vehicles[vehiclesRanks[b]]
		return rhs.Capacity.Below(lhs.Capacity) ||
			(lhs.Capacity.Equal(rhs.Capacity) && lhs.TW.Length() > rhs.TW.Length())
	})

	costs := make([]Cost, len(in.Jobs))
	for j := range in.Jobs {
		costs[j] = emptyRouteCost(in, &in.Vehicles[0], j)
	}

	for _, vRank := range vehiclesRanks {
		r := routes[vRank]
		if init != InitNone {
			initRoute(in, r, vRank, init, assigned,
				func(j int) Cost { return costs[j] },
				func(j int) bool { return true })
		}
		fillRoute(in, r, vRank, lambda, assigned,
			func(j int) Cost { return costs[j] })
	}
}

// dynamicVehicleChoice picks the vehicle to fill next as the one that
// is the closest remaining option for the most unassigned jobs, then
// inserts greedily with a regret term measuring what is lost by not
// giving a job to its best-suited other vehicle.
func dynamicVehicleChoice(in *Input, routes []Route, init Init, lambda float64, assigned []bool) {
	remaining := make([]int, len(in.Vehicles))
	for i := range remaining {
		remaining[i] = i
	}

	costs := make([][]Cost, len(in.Jobs))
	for j := range in.Jobs {
		costs[j] = make([]Cost, len(in.Vehicles))
		for v := range in.Vehicles {
			costs[j][v] = emptyRouteCost(in, &in.Vehicles[v], j)
		}
	}

	for len(remaining) > 0 && !allAssigned(assigned) {
		minCosts := make([]Cost, len(in.Jobs))
		secondMinCosts := make([]Cost, len(in.Jobs))
		for j := range in.Jobs {
			minCosts[j] = maxCost
			secondMinCosts[j] = maxCost
		}
		for j := range in.Jobs {
			if assigned[j] {
				continue
			}
			for _, v := range remaining {
				if costs[j][v] <= minCosts[j] {
					secondMinCosts[j] = minCosts[j]
					minCosts[j] = costs[j][v]
				} else if costs[j][v] < secondMinCosts[j] {
					secondMinCosts[j] = costs[j][v]
				}
			}
		}

		closestJobsCount := make([]int, len(in.Vehicles))
		for j := range in.Jobs {
			if assigned[j] {
				continue
			}
			for _, v := range remaining {
				if costs[j][v] == minCosts[j] {
					closestJobsCount[v]++
				}
			}
		}

		chosenPos := 0
		for pos := 1; pos < len(remaining); pos++ {
			lhs := remaining[pos]
			rhs := remaining[chosenPos]
			vl := &in.Vehicles[lhs]
			vr := &in.Vehicles[rhs]
			if closestJobsCount[lhs] > closestJobsCount[rhs] ||
				(closestJobsCount[lhs] == closestJobsCount[rhs] &&
					(vr.Capacity.Below(vl.Capacity) ||
						(vl.Capacity.Equal(vr.Capacity) && vl.TW.Length() > vr.TW.Length()))) {
				chosenPos = pos
			}
		}
		vRank := remaining[chosenPos]
		remaining = append(remaining[:chosenPos], remaining[chosenPos+1:]...)

		// regrets[j]: min empty-route cost over the other remaining
		// vehicles. Jobs with no remaining alternative keep the
		// sentinel, which strongly favors placing them now.
		regrets := make([]Cost, len(in.Jobs))
		for j := range in.Jobs {
			regrets[j] = maxCost
			if assigned[j] {
				continue
			}
			if minCosts[j] < costs[j][vRank] {
				regrets[j] = minCosts[j]
			} else {
				regrets[j] = secondMinCosts[j]
			}
		}

		r := routes[vRank]
		if init != InitNone {
			initRoute(in, r, vRank, init, assigned,
				func(j int) Cost { return costs[j][vRank] },
				func(j int) bool { return minCosts[j] >= costs[j][vRank] })
		}
		fillRoute(in, r, vRank, lambda, assigned,
			func(j int) Cost { return regrets[j] })
	}
}

func allAssigned(assigned []bool) bool {
	for _, a := range assigned {
		if !a {
			return false
		}
	}
	return true
}

// initRoute seeds an empty route with the "best" admissible job per the
// init rule, scanning unassigned jobs in ascending rank order so ties
// keep the first candidate.
func initRoute(in *Input, r Route, vRank int, init Init, assigned []bool, jobCost func(int) Cost, eligible func(int) bool) {
	initOK := false
	higherAmount := in.ZeroAmount()
	var furthestCost Cost = 0
	nearestCost := maxCost
	earliestDeadline := MaxDuration
	bestJobRank := 0

	for j := range in.Jobs {
		if assigned[j] || !eligible(j) ||
			!in.VehicleOKWithJob(vRank, j) ||
			!r.IsValidAdditionForCapacity(in, in.Jobs[j].Pickup, in.Jobs[j].Delivery, 0) ||
			!r.IsValidAdditionForTW(in, j, 0) {
			continue
		}

		switch init {
		case InitHigherAmount:
			if higherAmount.Below(in.Jobs[j].Pickup) {
				higherAmount = in.Jobs[j].Pickup
				bestJobRank = j
				initOK = true
			}
			if higherAmount.Below(in.Jobs[j].Delivery) {
				higherAmount = in.Jobs[j].Delivery
				bestJobRank = j
				initOK = true
			}
		case InitEarliestDeadline:
			if deadline := in.Jobs[j].Deadline(); deadline < earliestDeadline {
				earliestDeadline = deadline
				bestJobRank = j
				initOK = true
			}
		case InitFurthest:
			if furthestCost < jobCost(j) {
				furthestCost = jobCost(j)
				bestJobRank = j
				initOK = true
			}
		case InitNearest:
			if jobCost(j) < nearestCost {
				nearestCost = jobCost(j)
				bestJobRank = j
				initOK = true
			}
		}
	}
	if initOK {
		r.Add(in, bestJobRank, 0)
		r.UpdateAmounts(in)
		assigned[bestJobRank] = true
	}
}

// fillRoute greedily inserts the (job, position) minimizing
// addition cost − λ·weight(job) until no feasible insertion remains.
func fillRoute(in *Input, r Route, vRank int, lambda float64, assigned []bool, weight func(int) Cost) {
	m := in.Matrix()
	vehicle := &in.Vehicles[vRank]

	for {
		bestCost := math.Inf(1)
		bestJobRank := 0
		bestRank := 0

		for j := range in.Jobs {
			if assigned[j] || !in.VehicleOKWithJob(vRank, j) {
				continue
			}
			for rank := 0; rank <= r.Size(); rank++ {
				add := AdditionCost(in, m, j, vehicle, r.Visits(), rank)
				current := float64(add) - lambda*float64(weight(j))
				if current < bestCost &&
					r.IsValidAdditionForCapacity(in, in.Jobs[j].Pickup, in.Jobs[j].Delivery, rank) &&
					r.IsValidAdditionForTW(in, j, rank) {
					bestCost = current
					bestJobRank = j
					bestRank = rank
				}
			}
		}

		if math.IsInf(bestCost, 1) {
			return
		}
		r.Add(in, bestJobRank, bestRank)
		r.UpdateAmounts(in)
		assigned[bestJobRank] = true
	}
}
