package solver

// RawRoute is the capacity-only route variant: an ordered visit
// sequence plus cached load profiles for cheap feasibility queries.
//
// The load model: a vehicle leaves the depot carrying every delivery on
// the route, drops each job's delivery and takes its pickup at service
// time. loads[i] is the load after serving the first i jobs; peaks are
// running maxima over that profile. All caches are refreshed by
// UpdateAmounts and are only valid while Route is unchanged since the
// last refresh.
type RawRoute struct {
	Route []int // job ranks in visit order

	vehicleRank int

	pickupPrefix   []Amount // pickupPrefix[i] = sum of pickups of Route[:i]
	deliveryPrefix []Amount
	loads          []Amount // len Size()+1
	fwdPeaks       []Amount // fwdPeaks[r] = max loads[i] for i <= r
	bwdPeaks       []Amount // bwdPeaks[r] = max loads[i] for i >= r
}

// NewRawRoute returns an empty route for the vehicle at vehicleRank.
func NewRawRoute(in *Input, vehicleRank int) *RawRoute {
	r := &RawRoute{vehicleRank: vehicleRank}
	r.UpdateAmounts(in)
	return r
}

// VehicleRank returns the rank of the vehicle owning this route.
func (r *RawRoute) VehicleRank() int { return r.vehicleRank }

// Size returns the number of jobs in the route.
func (r *RawRoute) Size() int { return len(r.Route) }

// Empty reports whether the route has no jobs.
func (r *RawRoute) Empty() bool { return len(r.Route) == 0 }

// Visits returns the visit sequence. The slice is shared, not copied.
func (r *RawRoute) Visits() []int { return r.Route }

// Add inserts jobRank at position (0 <= position <= Size). It must only
// be called after the matching validity checks returned true, and the
// caches are stale until the next UpdateAmounts.
func (r *RawRoute) Add(_ *Input, jobRank, position int) {
	r.Route = append(r.Route, 0)
	copy(r.Route[position+1:], r.Route[position:])
	r.Route[position] = jobRank
}

// UpdateAmounts recomputes the load profile and peaks from the current
// visit sequence.
func (r *RawRoute) UpdateAmounts(in *Input) {
	n := len(r.Route)
	r.pickupPrefix = make([]Amount, n+1)
	r.deliveryPrefix = make([]Amount, n+1)
	r.loads = make([]Amount, n+1)
	r.fwdPeaks = make([]Amount, n+1)
	r.bwdPeaks = make([]Amount, n+1)

	r.pickupPrefix[0] = in.ZeroAmount()
	r.deliveryPrefix[0] = in.ZeroAmount()
	for i, j := range r.Route {
		r.pickupPrefix[i+1] = r.pickupPrefix[i].Add(in.Jobs[j].Pickup)
		r.deliveryPrefix[i+1] = r.deliveryPrefix[i].Add(in.Jobs[j].Delivery)
	}

	totalDelivery := r.deliveryPrefix[n]
	for i := 0; i <= n; i++ {
		r.loads[i] = totalDelivery.Sub(r.deliveryPrefix[i]).Add(r.pickupPrefix[i])
	}
	r.fwdPeaks[0] = r.loads[0]
	for i := 1; i <= n; i++ {
		r.fwdPeaks[i] = r.fwdPeaks[i-1].Max(r.loads[i])
	}
	r.bwdPeaks[n] = r.loads[n]
	for i := n - 1; i >= 0; i-- {
		r.bwdPeaks[i] = r.bwdPeaks[i+1].Max(r.loads[i])
	}
}

// Load returns the load after serving the first i jobs.
func (r *RawRoute) Load(i int) Amount { return r.loads[i] }

// MaxLoad returns the peak load over the whole route.
func (r *RawRoute) MaxLoad() Amount { return r.fwdPeaks[len(r.Route)] }

// PickupInRange returns the summed pickups of Route[first:last].
func (r *RawRoute) PickupInRange(first, last int) Amount {
	return r.pickupPrefix[last].Sub(r.pickupPrefix[first])
}

// DeliveryInRange returns the summed deliveries of Route[first:last].
func (r *RawRoute) DeliveryInRange(first, last int) Amount {
	return r.deliveryPrefix[last].Sub(r.deliveryPrefix[first])
}

// IsValidAdditionForCapacity reports whether inserting a job with the
// given pickup and delivery at position keeps the route within vehicle
// capacity. The inserted delivery raises every load up to position, the
// inserted pickup every load after it.
func (r *RawRoute) IsValidAdditionForCapacity(in *Input, pickup, delivery Amount, position int) bool {
	capacity := in.Vehicles[r.vehicleRank].Capacity
	return r.fwdPeaks[position].Add(delivery).LE(capacity) &&
		r.bwdPeaks[position].Add(pickup).LE(capacity)
}

// IsValidAdditionForCapacityMargins reports whether replacing
// Route[first:last] with a segment of the given total pickup and
// delivery keeps the rest of the route within capacity. Loads inside
// the replacement are the inclusion check's business.
func (r *RawRoute) IsValidAdditionForCapacityMargins(in *Input, pickup, delivery Amount, first, last int) bool {
	capacity := in.Vehicles[r.vehicleRank].Capacity
	fwd := r.fwdPeaks[first].Sub(r.DeliveryInRange(first, last)).Add(delivery)
	bwd := r.bwdPeaks[last].Sub(r.PickupInRange(first, last)).Add(pickup)
	return fwd.LE(capacity) && bwd.LE(capacity)
}

// IsValidAdditionForCapacityInclusion reports whether replacing
// Route[first:last] with the job ranks of segment, visited in segment
// order, keeps every intermediate load within capacity. delivery is the
// summed delivery of segment; callers pass a reversed copy to test the
// opposite orientation.
func (r *RawRoute) IsValidAdditionForCapacityInclusion(in *Input, delivery Amount, segment []int, first, last int) bool {
	capacity := in.Vehicles[r.vehicleRank].Capacity

	current := r.loads[0].Sub(r.DeliveryInRange(first, last)).Add(delivery)
	if !current.LE(capacity) {
		return false
	}
	step := func(jobRank int) bool {
		j := &in.Jobs[jobRank]
		current = current.Sub(j.Delivery).Add(j.Pickup)
		return current.LE(capacity)
	}
	for _, jobRank := range r.Route[:first] {
		if !step(jobRank) {
			return false
		}
	}
	for _, jobRank := range segment {
		if !step(jobRank) {
			return false
		}
	}
	for _, jobRank := range r.Route[last:] {
		if !step(jobRank) {
			return false
		}
	}
	return true
}

// IsValidAdditionForTW always holds for the capacity-only variant.
func (r *RawRoute) IsValidAdditionForTW(in *Input, jobRank, position int) bool {
	return true
}
