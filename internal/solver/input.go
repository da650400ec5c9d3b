package solver

import (
	"fmt"
	"math"
)

// MaxDuration is the latest representable instant; used as the default
// deadline when a job or vehicle carries no time window.
const MaxDuration Duration = math.MaxInt64 / 4

// TimeWindow is a [Start, End] interval constraining service start.
type TimeWindow struct {
	Start Duration
	End   Duration
}

// DefaultTimeWindow covers the whole representable horizon.
func DefaultTimeWindow() TimeWindow { return TimeWindow{Start: 0, End: MaxDuration} }

// Length returns End - Start.
func (tw TimeWindow) Length() Duration { return tw.End - tw.Start }

// Job is an immutable service task at a matrix location.
type Job struct {
	Index    int // location index into the matrix
	Pickup   Amount
	Delivery Amount
	Service  Duration
	Skills   []string
	TWs      []TimeWindow // ordered, non-overlapping; never empty after NewInput
}

// Deadline is the latest admissible service end, i.e. the end of the
// last time window.
func (j *Job) Deadline() Duration { return j.TWs[len(j.TWs)-1].End }

// Vehicle is an immutable vehicle description. Start and End are
// optional depot locations.
type Vehicle struct {
	Capacity Amount
	TW       TimeWindow
	Start    *int
	End      *int
	Skills   []string
}

// HasStart reports whether the vehicle leaves from a fixed location.
func (v *Vehicle) HasStart() bool { return v.Start != nil }

// HasEnd reports whether the vehicle must return to a fixed location.
func (v *Vehicle) HasEnd() bool { return v.End != nil }

// Input is the immutable problem description shared read-only by all
// heuristics and operators for the duration of a solve.
type Input struct {
	Jobs     []Job
	Vehicles []Vehicle

	matrix    Matrix
	amountDim int
	compat    [][]bool // [vehicle][job] skill compatibility
}

// NewInput validates the problem and precomputes the vehicle/job
// compatibility table. Jobs and vehicles are not copied; callers must
// not mutate them afterwards.
func NewInput(jobs []Job, vehicles []Vehicle, m Matrix) (*Input, error) {
	if len(vehicles) == 0 {
		return nil, fmt.Errorf("at least one vehicle required")
	}
	dim := len(vehicles[0].Capacity)
	for vi := range vehicles {
		v := &vehicles[vi]
		if len(v.Capacity) != dim {
			return nil, fmt.Errorf("vehicle %d: capacity dimension %d, want %d", vi, len(v.Capacity), dim)
		}
		if v.TW == (TimeWindow{}) {
			v.TW = DefaultTimeWindow()
		}
		if v.TW.Start > v.TW.End {
			return nil, fmt.Errorf("vehicle %d: time window start after end", vi)
		}
		if v.HasStart() && *v.Start >= m.Size() {
			return nil, fmt.Errorf("vehicle %d: start index %d outside matrix", vi, *v.Start)
		}
		if v.HasEnd() && *v.End >= m.Size() {
			return nil, fmt.Errorf("vehicle %d: end index %d outside matrix", vi, *v.End)
		}
	}
	for ji := range jobs {
		j := &jobs[ji]
		if j.Index >= m.Size() {
			return nil, fmt.Errorf("job %d: location index %d outside matrix", ji, j.Index)
		}
		if j.Pickup == nil {
			j.Pickup = ZeroAmount(dim)
		}
		if j.Delivery == nil {
			j.Delivery = ZeroAmount(dim)
		}
		if len(j.Pickup) != dim || len(j.Delivery) != dim {
			return nil, fmt.Errorf("job %d: amount dimension mismatch", ji)
		}
		if len(j.TWs) == 0 {
			j.TWs = []TimeWindow{DefaultTimeWindow()}
		}
		for k, tw := range j.TWs {
			if tw.Start > tw.End {
				return nil, fmt.Errorf("job %d: time window %d start after end", ji, k)
			}
			if k > 0 && j.TWs[k-1].End >= tw.Start {
				return nil, fmt.Errorf("job %d: time windows must be ordered and disjoint", ji)
			}
		}
	}

	in := &Input{
		Jobs:      jobs,
		Vehicles:  vehicles,
		matrix:    m,
		amountDim: dim,
	}
	in.compat = make([][]bool, len(vehicles))
	for vi := range vehicles {
		in.compat[vi] = make([]bool, len(jobs))
		for ji := range jobs {
			in.compat[vi][ji] = hasSkills(vehicles[vi].Skills, jobs[ji].Skills)
		}
	}
	return in, nil
}

// hasSkills reports whether required is a subset of offered.
func hasSkills(offered, required []string) bool {
	for _, need := range required {
		found := false
		for _, have := range offered {
			if have == need {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Matrix returns the travel-cost matrix.
func (in *Input) Matrix() Matrix { return in.matrix }

// AmountDim returns the cargo dimension shared by all amounts.
func (in *Input) AmountDim() int { return in.amountDim }

// ZeroAmount returns a fresh zero amount of the problem's dimension.
func (in *Input) ZeroAmount() Amount { return ZeroAmount(in.amountDim) }

// VehicleOKWithJob reports whether the vehicle's skills cover the job's.
func (in *Input) VehicleOKWithJob(v, j int) bool { return in.compat[v][j] }
