package solver

// TWRoute is the time-windowed route variant. On top of RawRoute's
// capacity caches it maintains, per stop, the earliest and latest
// admissible service starts, so single-insertion feasibility is a local
// check against the neighbors instead of a full reschedule.
type TWRoute struct {
	RawRoute

	earliest []Duration
	latest   []Duration
}

// NewTWRoute returns an empty time-windowed route for the vehicle at
// vehicleRank.
func NewTWRoute(in *Input, vehicleRank int) *TWRoute {
	r := &TWRoute{RawRoute: RawRoute{vehicleRank: vehicleRank}}
	r.UpdateAmounts(in)
	return r
}

// Add inserts jobRank at position and reschedules. Must only be called
// after IsValidAdditionForTW (and the capacity check) returned true.
func (r *TWRoute) Add(in *Input, jobRank, position int) {
	r.RawRoute.Add(in, jobRank, position)
	r.updateSchedule(in)
}

// UpdateAmounts refreshes load caches and the schedule.
func (r *TWRoute) UpdateAmounts(in *Input) {
	r.RawRoute.UpdateAmounts(in)
	r.updateSchedule(in)
}

// Earliest returns the earliest service start at stop i.
func (r *TWRoute) Earliest(i int) Duration { return r.earliest[i] }

// Latest returns the latest service start at stop i keeping the route
// suffix and the vehicle shift feasible.
func (r *TWRoute) Latest(i int) Duration { return r.latest[i] }

// updateSchedule recomputes earliest and latest service starts. Routes
// are only ever extended through validated additions, so both passes
// succeed on any route this type hands out.
func (r *TWRoute) updateSchedule(in *Input) {
	n := len(r.Route)
	v := &in.Vehicles[r.vehicleRank]
	m := in.Matrix()

	r.earliest = make([]Duration, n)
	r.latest = make([]Duration, n)

	departure := v.TW.Start
	prevIndex := -1
	if v.HasStart() {
		prevIndex = *v.Start
	}
	for i, jobRank := range r.Route {
		j := &in.Jobs[jobRank]
		arrival := departure
		if prevIndex >= 0 {
			arrival += m.Cost(prevIndex, j.Index)
		}
		tw := earliestWindow(j.TWs, arrival)
		start := arrival
		if tw.Start > start {
			start = tw.Start
		}
		r.earliest[i] = start
		departure = start + j.Service
		prevIndex = j.Index
	}

	candidate := v.TW.End
	if n > 0 {
		last := &in.Jobs[r.Route[n-1]]
		if v.HasEnd() {
			candidate -= m.Cost(last.Index, *v.End)
		}
		candidate -= last.Service
	}
	for i := n - 1; i >= 0; i-- {
		j := &in.Jobs[r.Route[i]]
		tw := latestWindow(j.TWs, candidate)
		start := candidate
		if tw.End < start {
			start = tw.End
		}
		r.latest[i] = start
		if i > 0 {
			prev := &in.Jobs[r.Route[i-1]]
			candidate = start - m.Cost(prev.Index, j.Index) - prev.Service
		}
	}
}

// earliestWindow picks the first window that can still be met at
// arrival, falling back to the last one.
func earliestWindow(tws []TimeWindow, arrival Duration) TimeWindow {
	for _, tw := range tws {
		if arrival <= tw.End {
			return tw
		}
	}
	return tws[len(tws)-1]
}

// latestWindow picks the last window opening at or before candidate,
// falling back to the first one.
func latestWindow(tws []TimeWindow, candidate Duration) TimeWindow {
	for i := len(tws) - 1; i >= 0; i-- {
		if tws[i].Start <= candidate {
			return tws[i]
		}
	}
	return tws[0]
}

// IsValidAdditionForTW reports whether an admissible schedule exists
// after inserting jobRank at position: the job can be served within one
// of its windows, and its successor (or the vehicle's return) keeps its
// latest admissible start.
func (r *TWRoute) IsValidAdditionForTW(in *Input, jobRank, position int) bool {
	v := &in.Vehicles[r.vehicleRank]
	m := in.Matrix()
	j := &in.Jobs[jobRank]

	departure := v.TW.Start
	prevIndex := -1
	if v.HasStart() {
		prevIndex = *v.Start
	}
	if position > 0 {
		prev := &in.Jobs[r.Route[position-1]]
		departure = r.earliest[position-1] + prev.Service
		prevIndex = prev.Index
	}
	arrival := departure
	if prevIndex >= 0 {
		arrival += m.Cost(prevIndex, j.Index)
	}

	var start Duration
	ok := false
	for _, tw := range j.TWs {
		if arrival <= tw.End {
			start = arrival
			if tw.Start > start {
				start = tw.Start
			}
			ok = true
			break
		}
	}
	if !ok {
		return false
	}

	end := start + j.Service
	if position < len(r.Route) {
		next := &in.Jobs[r.Route[position]]
		return end+m.Cost(j.Index, next.Index) <= r.latest[position]
	}
	if v.HasEnd() {
		return end+m.Cost(j.Index, *v.End) <= v.TW.End
	}
	return end <= v.TW.End
}
