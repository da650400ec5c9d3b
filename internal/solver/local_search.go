package solver

// LocalSearch improves a capacity-variant solution by repeatedly
// applying the best positive-gain cross-exchange across all route
// pairs, refreshing route amounts and the solution-state cache for the
// vehicles each applied move reports.
type LocalSearch struct {
	input  *Input
	state  *SolutionState
	routes []*RawRoute
}

// NewLocalSearch sets up the search and its solution-state cache.
func NewLocalSearch(in *Input, routes []*RawRoute) *LocalSearch {
	state := NewSolutionState(len(in.Vehicles))
	state.Setup(in, routes)
	return &LocalSearch{input: in, state: state, routes: routes}
}

// State exposes the solution-state cache, refreshed as moves apply.
func (ls *LocalSearch) State() *SolutionState { return ls.state }

// Run applies improving moves until none remains or maxMoves is hit
// (maxMoves <= 0 means no cap). It returns the number of applied moves
// and their summed gain.
func (ls *LocalSearch) Run(maxMoves int) (int, Gain) {
	moves := 0
	var total Gain
	for maxMoves <= 0 || moves < maxMoves {
		op := ls.bestMove()
		if op == nil {
			break
		}
		op.Apply()
		total += op.StoredGain()
		moves++
		for _, v := range op.UpdateCandidates() {
			ls.routes[v].UpdateAmounts(ls.input)
			ls.state.UpdateEdgeCosts(ls.input, ls.routes[v].Route, v)
		}
	}
	return moves, total
}

// bestMove evaluates every cross-exchange candidate, pruning with the
// gain upper bound before running feasibility.
func (ls *LocalSearch) bestMove() *CrossExchange {
	var best *CrossExchange
	var bestGain Gain

	for sV := 0; sV < len(ls.routes); sV++ {
		sRoute := ls.routes[sV]
		if sRoute.Size() < 2 {
			continue
		}
		for tV := sV + 1; tV < len(ls.routes); tV++ {
			tRoute := ls.routes[tV]
			if tRoute.Size() < 2 {
				continue
			}
			for sRank := 0; sRank <= sRoute.Size()-2; sRank++ {
				for tRank := 0; tRank <= tRoute.Size()-2; tRank++ {
					op := NewCrossExchange(ls.input, ls.state, sRoute, sV, sRank, tRoute, tV, tRank)
					if op.GainUpperBound() <= bestGain {
						continue
					}
					if !op.IsValid() {
						continue
					}
					op.ComputeGain()
					if op.StoredGain() > bestGain {
						best = op
						bestGain = op.StoredGain()
					}
				}
			}
		}
	}
	return best
}
