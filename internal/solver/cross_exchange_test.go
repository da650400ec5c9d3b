package solver

import "testing"

// Two depots on a line with two jobs from each cluster stranded in the
// other vehicle's route. Locations: 0 = depot A (coord 0), 1 = depot B
// (coord 100), then jobs a..h.
func crossInput(t *testing.T, override func(Matrix)) (*Input, *RawRoute, *RawRoute, *SolutionState) {
	t.Helper()
	coords := []int64{0, 100, 1, 90, 91, 2, 99, 10, 11, 98}
	m := lineMatrix(coords)
	if override != nil {
		override(m)
	}
	jobs := make([]Job, 8)
	for i := range jobs {
		jobs[i] = Job{Index: i + 2, Delivery: Amount{1}}
	}
	vehicles := []Vehicle{
		{Capacity: Amount{10}, Start: intPtr(0), End: intPtr(0)},
		{Capacity: Amount{10}, Start: intPtr(1), End: intPtr(1)},
	}
	in := mustInput(t, jobs, vehicles, m)

	sRoute := NewRawRoute(in, 0)
	tRoute := NewRawRoute(in, 1)
	for i, j := range []int{0, 1, 2, 3} { // a b c d
		sRoute.Add(in, j, i)
	}
	for i, j := range []int{4, 5, 6, 7} { // e f g h
		tRoute.Add(in, j, i)
	}
	sRoute.UpdateAmounts(in)
	tRoute.UpdateAmounts(in)

	state := NewSolutionState(2)
	state.Setup(in, []*RawRoute{sRoute, tRoute})
	return in, sRoute, tRoute, state
}

func TestCrossExchangeSymmetric(t *testing.T) {
	in, sRoute, tRoute, state := crossInput(t, nil)
	before := RouteCost(in, 0, sRoute.Route) + RouteCost(in, 1, tRoute.Route)

	op := NewCrossExchange(in, state, sRoute, 0, 1, tRoute, 1, 1)
	ub := op.GainUpperBound()
	if ub <= 0 {
		t.Fatalf("gain upper bound = %d, want > 0", ub)
	}
	if !op.IsValid() {
		t.Fatal("move should be valid")
	}
	op.ComputeGain()
	gain := op.StoredGain()
	if ub < gain {
		t.Fatalf("upper bound %d below stored gain %d", ub, gain)
	}
	op.Apply()

	if !sameRanks(sRoute.Route, []int{0, 5, 6, 3}) {
		t.Fatalf("source route = %v, want [0 5 6 3]", sRoute.Route)
	}
	if !sameRanks(tRoute.Route, []int{4, 1, 2, 7}) {
		t.Fatalf("target route = %v, want [4 1 2 7]", tRoute.Route)
	}

	after := RouteCost(in, 0, sRoute.Route) + RouteCost(in, 1, tRoute.Route)
	if before-after != gain {
		t.Fatalf("measured drop %d != stored gain %d", before-after, gain)
	}
}

// Conservation: the multiset of jobs across both routes and the route
// lengths survive Apply.
func TestCrossExchangeConservation(t *testing.T) {
	in, sRoute, tRoute, state := crossInput(t, nil)

	op := NewCrossExchange(in, state, sRoute, 0, 1, tRoute, 1, 1)
	op.GainUpperBound()
	if !op.IsValid() {
		t.Fatal("move should be valid")
	}
	op.ComputeGain()
	op.Apply()

	if len(sRoute.Route) != 4 || len(tRoute.Route) != 4 {
		t.Fatalf("route lengths changed: %d, %d", len(sRoute.Route), len(tRoute.Route))
	}
	seen := make(map[int]int)
	for _, j := range sRoute.Route {
		seen[j]++
	}
	for _, j := range tRoute.Route {
		seen[j]++
	}
	for j := 0; j < 8; j++ {
		if seen[j] != 1 {
			t.Fatalf("job %d appears %d times", j, seen[j])
		}
	}
}

// An asymmetric edge in the source route makes the reversed orientation
// pay on the target side: the source edge lands reversed in the target
// route.
func TestCrossExchangeReversal(t *testing.T) {
	// Job ranks 1,2 are b,c at locations 3,4. Make b->c expensive.
	in, sRoute, tRoute, state := crossInput(t, func(m Matrix) {
		m[3][4] = 200
	})
	before := RouteCost(in, 0, sRoute.Route) + RouteCost(in, 1, tRoute.Route)

	op := NewCrossExchange(in, state, sRoute, 0, 1, tRoute, 1, 1)
	ub := op.GainUpperBound()
	if !op.IsValid() {
		t.Fatal("move should be valid")
	}
	op.ComputeGain()
	gain := op.StoredGain()
	if ub < gain {
		t.Fatalf("upper bound %d below stored gain %d", ub, gain)
	}
	op.Apply()

	if !op.reverseSEdge {
		t.Fatal("expected the source edge to be reversed in the target route")
	}
	if !sameRanks(tRoute.Route, []int{4, 2, 1, 7}) {
		t.Fatalf("target route = %v, want [4 2 1 7]", tRoute.Route)
	}
	if !sameRanks(sRoute.Route, []int{0, 5, 6, 3}) {
		t.Fatalf("source route = %v, want [0 5 6 3]", sRoute.Route)
	}

	after := RouteCost(in, 0, sRoute.Route) + RouteCost(in, 1, tRoute.Route)
	if before-after != gain {
		t.Fatalf("measured drop %d != stored gain %d", before-after, gain)
	}
}

// The target edge's deliveries exceed what the source vehicle can
// carry: the move is invalid and ComputeGain is never reached.
func TestCrossExchangeCapacityInfeasible(t *testing.T) {
	jobs := []Job{
		{Index: 0, Delivery: Amount{1}},
		{Index: 0, Delivery: Amount{1}},
		{Index: 0, Delivery: Amount{5}},
		{Index: 0, Delivery: Amount{5}},
	}
	vehicles := []Vehicle{
		{Capacity: Amount{2}},
		{Capacity: Amount{10}},
	}
	in := mustInput(t, jobs, vehicles, NewMatrix(1))

	sRoute := NewRawRoute(in, 0)
	sRoute.Add(in, 0, 0)
	sRoute.Add(in, 1, 1)
	sRoute.UpdateAmounts(in)
	tRoute := NewRawRoute(in, 1)
	tRoute.Add(in, 2, 0)
	tRoute.Add(in, 3, 1)
	tRoute.UpdateAmounts(in)

	state := NewSolutionState(2)
	state.Setup(in, []*RawRoute{sRoute, tRoute})

	op := NewCrossExchange(in, state, sRoute, 0, 0, tRoute, 1, 0)
	op.GainUpperBound()
	if op.IsValid() {
		t.Fatal("move must be invalid")
	}
}

// Skill-incompatible jobs block the exchange even when capacity fits.
func TestCrossExchangeSkillInfeasible(t *testing.T) {
	jobs := []Job{
		{Index: 0, Delivery: Amount{1}},
		{Index: 0, Delivery: Amount{1}},
		{Index: 0, Delivery: Amount{1}, Skills: []string{"crane"}},
		{Index: 0, Delivery: Amount{1}},
	}
	vehicles := []Vehicle{
		{Capacity: Amount{5}},
		{Capacity: Amount{5}, Skills: []string{"crane"}},
	}
	in := mustInput(t, jobs, vehicles, NewMatrix(1))

	sRoute := NewRawRoute(in, 0)
	sRoute.Add(in, 0, 0)
	sRoute.Add(in, 1, 1)
	sRoute.UpdateAmounts(in)
	tRoute := NewRawRoute(in, 1)
	tRoute.Add(in, 2, 0)
	tRoute.Add(in, 3, 1)
	tRoute.UpdateAmounts(in)

	state := NewSolutionState(2)
	state.Setup(in, []*RawRoute{sRoute, tRoute})

	op := NewCrossExchange(in, state, sRoute, 0, 0, tRoute, 1, 0)
	op.GainUpperBound()
	if op.IsValid() {
		t.Fatal("job 2 cannot ride with vehicle 0")
	}
}

func TestCrossExchangeSameVehiclePanics(t *testing.T) {
	in, sRoute, _, state := crossInput(t, nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on aliased vehicles")
		}
	}()
	NewCrossExchange(in, state, sRoute, 0, 0, sRoute, 0, 1)
}
