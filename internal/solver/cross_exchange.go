package solver

// CrossExchange swaps the two consecutive jobs starting at sRank in the
// source route with the two starting at tRank in the target route.
// Either inserted edge may be reversed independently when that is
// cheaper or the only feasible orientation.
type CrossExchange struct {
	operatorBase

	gainUpperBoundComputed bool

	normalSGain   Gain
	reversedSGain Gain
	normalTGain   Gain
	reversedTGain Gain

	reverseSEdge bool
	reverseTEdge bool

	sIsNormalValid  bool
	sIsReverseValid bool
	tIsNormalValid  bool
	tIsReverseValid bool
}

// NewCrossExchange requires distinct vehicles, both routes of size >= 2
// and ranks leaving a full edge on each side; violations are programmer
// errors and panic.
func NewCrossExchange(in *Input, solState *SolutionState, sRoute *RawRoute, sVehicle, sRank int, tRoute *RawRoute, tVehicle, tRank int) *CrossExchange {
	if sVehicle == tVehicle {
		panic("solver: cross-exchange requires distinct vehicles")
	}
	if sRoute.Size() < 2 || tRoute.Size() < 2 ||
		sRank < 0 || sRank >= sRoute.Size()-1 ||
		tRank < 0 || tRank >= tRoute.Size()-1 {
		panic("solver: cross-exchange rank out of bounds")
	}
	return &CrossExchange{
		operatorBase: operatorBase{
			input:    in,
			solState: solState,
			sRoute:   sRoute,
			sVehicle: sVehicle,
			sRank:    sRank,
			tRoute:   tRoute,
			tVehicle: tVehicle,
			tRank:    tRank,
		},
	}
}

// GainUpperBound bounds the move's gain by combining, per side, the
// cached cost around the removed edge with the cheapest way (normal or
// reversed) of wiring in the other route's edge. It never consults
// feasibility.
func (op *CrossExchange) GainUpperBound() Gain {
	in := op.input
	m := in.Matrix()
	vSource := &in.Vehicles[op.sVehicle]
	vTarget := &in.Vehicles[op.tVehicle]

	sIndex := in.Jobs[op.sRoute.Route[op.sRank]].Index
	sAfterIndex := in.Jobs[op.sRoute.Route[op.sRank+1]].Index
	tIndex := in.Jobs[op.tRoute.Route[op.tRank]].Index
	tAfterIndex := in.Jobs[op.tRoute.Route[op.tRank+1]].Index

	// Cost of wiring the target edge into the source route, in both
	// orientations.
	var previousCost, nextCost, reversePreviousCost, reverseNextCost Gain
	if op.sRank == 0 {
		if vSource.HasStart() {
			previousCost = m.Cost(*vSource.Start, tIndex)
			reversePreviousCost = m.Cost(*vSource.Start, tAfterIndex)
		}
	} else {
		pIndex := in.Jobs[op.sRoute.Route[op.sRank-1]].Index
		previousCost = m.Cost(pIndex, tIndex)
		reversePreviousCost = m.Cost(pIndex, tAfterIndex)
	}
	if op.sRank == op.sRoute.Size()-2 {
		if vSource.HasEnd() {
			nextCost = m.Cost(tAfterIndex, *vSource.End)
			reverseNextCost = m.Cost(tIndex, *vSource.End)
		}
	} else {
		nIndex := in.Jobs[op.sRoute.Route[op.sRank+2]].Index
		nextCost = m.Cost(tAfterIndex, nIndex)
		reverseNextCost = m.Cost(tIndex, nIndex)
	}

	edgeCostS := op.solState.EdgeCostAroundEdge(op.sVehicle, op.sRank)
	op.normalSGain = edgeCostS - previousCost - nextCost
	reverseEdgeCost := m.Cost(tIndex, tAfterIndex) - m.Cost(tAfterIndex, tIndex)
	op.reversedSGain = edgeCostS + reverseEdgeCost - reversePreviousCost - reverseNextCost

	// Same for wiring the source edge into the target route.
	previousCost, nextCost, reversePreviousCost, reverseNextCost = 0, 0, 0, 0
	if op.tRank == 0 {
		if vTarget.HasStart() {
			previousCost = m.Cost(*vTarget.Start, sIndex)
			reversePreviousCost = m.Cost(*vTarget.Start, sAfterIndex)
		}
	} else {
		pIndex := in.Jobs[op.tRoute.Route[op.tRank-1]].Index
		previousCost = m.Cost(pIndex, sIndex)
		reversePreviousCost = m.Cost(pIndex, sAfterIndex)
	}
	if op.tRank == op.tRoute.Size()-2 {
		if vTarget.HasEnd() {
			nextCost = m.Cost(sAfterIndex, *vTarget.End)
			reverseNextCost = m.Cost(sIndex, *vTarget.End)
		}
	} else {
		nIndex := in.Jobs[op.tRoute.Route[op.tRank+2]].Index
		nextCost = m.Cost(sAfterIndex, nIndex)
		reverseNextCost = m.Cost(sIndex, nIndex)
	}

	edgeCostT := op.solState.EdgeCostAroundEdge(op.tVehicle, op.tRank)
	op.normalTGain = edgeCostT - previousCost - nextCost
	reverseEdgeCost = m.Cost(sIndex, sAfterIndex) - m.Cost(sAfterIndex, sIndex)
	op.reversedTGain = edgeCostT + reverseEdgeCost - reversePreviousCost - reverseNextCost

	op.gainUpperBoundComputed = true

	return maxGain(op.normalSGain, op.reversedSGain) + maxGain(op.normalTGain, op.reversedTGain)
}

func maxGain(a, b Gain) Gain {
	if a > b {
		return a
	}
	return b
}

// IsValid checks skill compatibility, capacity margins at both sites
// and, per side, which of the two segment orientations stays within
// capacity. The move is valid when each side has at least one feasible
// orientation.
func (op *CrossExchange) IsValid() bool {
	in := op.input
	sCurrent := op.sRoute.Route[op.sRank]
	sAfter := op.sRoute.Route[op.sRank+1]
	tCurrent := op.tRoute.Route[op.tRank]
	tAfter := op.tRoute.Route[op.tRank+1]

	valid := in.VehicleOKWithJob(op.tVehicle, sCurrent) &&
		in.VehicleOKWithJob(op.tVehicle, sAfter) &&
		in.VehicleOKWithJob(op.sVehicle, tCurrent) &&
		in.VehicleOKWithJob(op.sVehicle, tAfter)

	targetPickup := in.Jobs[tCurrent].Pickup.Add(in.Jobs[tAfter].Pickup)
	targetDelivery := in.Jobs[tCurrent].Delivery.Add(in.Jobs[tAfter].Delivery)
	valid = valid && op.sRoute.IsValidAdditionForCapacityMargins(in, targetPickup, targetDelivery, op.sRank, op.sRank+2)

	if valid {
		tEdge := []int{tCurrent, tAfter}
		tEdgeReversed := []int{tAfter, tCurrent}
		op.sIsNormalValid = op.sRoute.IsValidAdditionForCapacityInclusion(in, targetDelivery, tEdge, op.sRank, op.sRank+2)
		op.sIsReverseValid = op.sRoute.IsValidAdditionForCapacityInclusion(in, targetDelivery, tEdgeReversed, op.sRank, op.sRank+2)
		valid = op.sIsNormalValid || op.sIsReverseValid
	}

	sourcePickup := in.Jobs[sCurrent].Pickup.Add(in.Jobs[sAfter].Pickup)
	sourceDelivery := in.Jobs[sCurrent].Delivery.Add(in.Jobs[sAfter].Delivery)
	valid = valid && op.tRoute.IsValidAdditionForCapacityMargins(in, sourcePickup, sourceDelivery, op.tRank, op.tRank+2)

	if valid {
		sEdge := []int{sCurrent, sAfter}
		sEdgeReversed := []int{sAfter, sCurrent}
		op.tIsNormalValid = op.tRoute.IsValidAdditionForCapacityInclusion(in, sourceDelivery, sEdge, op.tRank, op.tRank+2)
		op.tIsReverseValid = op.tRoute.IsValidAdditionForCapacityInclusion(in, sourceDelivery, sEdgeReversed, op.tRank, op.tRank+2)
		valid = op.tIsNormalValid || op.tIsReverseValid
	}

	return valid
}

// ComputeGain commits, per side, the feasible orientation with the
// larger preliminary gain and stores their sum.
func (op *CrossExchange) ComputeGain() {
	if !op.gainUpperBoundComputed {
		panic("solver: ComputeGain before GainUpperBound")
	}
	if !op.sIsNormalValid && !op.sIsReverseValid {
		panic("solver: ComputeGain on invalid source side")
	}
	if op.reversedSGain > op.normalSGain {
		if op.sIsReverseValid {
			op.storedGain += op.reversedSGain
			op.reverseTEdge = true
		} else {
			op.storedGain += op.normalSGain
		}
	} else {
		if op.sIsNormalValid {
			op.storedGain += op.normalSGain
		} else {
			op.storedGain += op.reversedSGain
			op.reverseTEdge = true
		}
	}

	if !op.tIsNormalValid && !op.tIsReverseValid {
		panic("solver: ComputeGain on invalid target side")
	}
	if op.reversedTGain > op.normalTGain {
		if op.tIsReverseValid {
			op.storedGain += op.reversedTGain
			op.reverseSEdge = true
		} else {
			op.storedGain += op.normalTGain
		}
	} else {
		if op.tIsNormalValid {
			op.storedGain += op.normalTGain
		} else {
			op.storedGain += op.reversedTGain
			op.reverseSEdge = true
		}
	}

	op.gainComputed = true
}

// Apply swaps the two edges in place, then fixes up orientations. The
// element-wise swaps must precede the reversal fixups.
func (op *CrossExchange) Apply() {
	if !op.gainComputed {
		panic("solver: Apply before ComputeGain")
	}
	s, t := op.sRoute.Route, op.tRoute.Route
	s[op.sRank], t[op.tRank] = t[op.tRank], s[op.sRank]
	s[op.sRank+1], t[op.tRank+1] = t[op.tRank+1], s[op.sRank+1]

	if op.reverseSEdge {
		t[op.tRank], t[op.tRank+1] = t[op.tRank+1], t[op.tRank]
	}
	if op.reverseTEdge {
		s[op.sRank], s[op.sRank+1] = s[op.sRank+1], s[op.sRank]
	}
}

// AdditionCandidates returns the vehicles with new insertion room.
func (op *CrossExchange) AdditionCandidates() []int {
	return []int{op.sVehicle, op.tVehicle}
}

// UpdateCandidates returns the vehicles whose derived state changed.
func (op *CrossExchange) UpdateCandidates() []int {
	return []int{op.sVehicle, op.tVehicle}
}
