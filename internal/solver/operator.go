package solver

// Operator is the local-search move protocol. The call order is fixed:
// GainUpperBound first (a cheap, possibly optimistic bound used to
// prune candidates), then IsValid, then — only on valid moves —
// ComputeGain, then Apply. ComputeGain never runs on an infeasible
// move; Apply never runs before ComputeGain.
type Operator interface {
	GainUpperBound() Gain
	IsValid() bool
	ComputeGain()
	StoredGain() Gain
	Apply()
	// AdditionCandidates lists vehicles whose routes gained insertion
	// opportunities; UpdateCandidates lists vehicles whose derived
	// state must be refreshed after Apply.
	AdditionCandidates() []int
	UpdateCandidates() []int
}

// operatorBase carries the borrowed state every operator works on: two
// mutably distinct routes of one solution plus the shared caches.
type operatorBase struct {
	input    *Input
	solState *SolutionState

	sRoute   *RawRoute
	sVehicle int
	sRank    int
	tRoute   *RawRoute
	tVehicle int
	tRank    int

	storedGain   Gain
	gainComputed bool
}

// StoredGain returns the committed gain of the chosen orientation.
func (o *operatorBase) StoredGain() Gain {
	if !o.gainComputed {
		panic("solver: StoredGain before ComputeGain")
	}
	return o.storedGain
}
