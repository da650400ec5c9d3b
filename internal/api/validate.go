package api

import (
	"fmt"

	"fleetopt/internal/model"
)

func validateSolveRequest(req *model.SolveRequest) error {
	if len(req.Matrix) == 0 {
		return fmt.Errorf("matrix is required")
	}
	n := len(req.Matrix)
	for i, row := range req.Matrix {
		if len(row) != n {
			return fmt.Errorf("matrix row %d has %d entries, want %d", i, len(row), n)
		}
		for j, c := range row {
			if c < 0 {
				return fmt.Errorf("matrix[%d][%d] must be >= 0", i, j)
			}
		}
	}
	if len(req.Vehicles) == 0 {
		return fmt.Errorf("at least one vehicle required")
	}
	if len(req.Jobs) == 0 {
		return fmt.Errorf("at least one job required")
	}
	dim := len(req.Vehicles[0].Capacity)
	for i, v := range req.Vehicles {
		if len(v.Capacity) != dim {
			return fmt.Errorf("vehicle %d: capacity length %d, want %d", i, len(v.Capacity), dim)
		}
		for _, c := range v.Capacity {
			if c < 0 {
				return fmt.Errorf("vehicle %d: capacity must be >= 0", i)
			}
		}
		if v.Start != nil && (*v.Start < 0 || *v.Start >= n) {
			return fmt.Errorf("vehicle %d: start outside matrix", i)
		}
		if v.End != nil && (*v.End < 0 || *v.End >= n) {
			return fmt.Errorf("vehicle %d: end outside matrix", i)
		}
		if v.TimeWindow != nil && v.TimeWindow[0] > v.TimeWindow[1] {
			return fmt.Errorf("vehicle %d: time window start after end", i)
		}
	}
	for i, j := range req.Jobs {
		if j.LocationIndex < 0 || j.LocationIndex >= n {
			return fmt.Errorf("job %d: locationIndex outside matrix", i)
		}
		if len(j.Pickup) > 0 && len(j.Pickup) != dim {
			return fmt.Errorf("job %d: pickup length %d, want %d", i, len(j.Pickup), dim)
		}
		if len(j.Delivery) > 0 && len(j.Delivery) != dim {
			return fmt.Errorf("job %d: delivery length %d, want %d", i, len(j.Delivery), dim)
		}
		if j.ServiceSec < 0 {
			return fmt.Errorf("job %d: serviceSec must be >= 0", i)
		}
		for k, tw := range j.TimeWindows {
			if tw[0] > tw[1] {
				return fmt.Errorf("job %d: time window %d start after end", i, k)
			}
		}
	}
	switch req.Options.Strategy {
	case "", "basic", "dynamic":
	default:
		return fmt.Errorf("invalid strategy: %s", req.Options.Strategy)
	}
	switch req.Options.Init {
	case "", "none", "higher_amount", "earliest_deadline", "furthest", "nearest":
	default:
		return fmt.Errorf("invalid init: %s", req.Options.Init)
	}
	if req.Options.Lambda < 0 {
		return fmt.Errorf("lambda must be >= 0")
	}
	if req.Options.MaxMoves < 0 {
		return fmt.Errorf("maxMoves must be >= 0")
	}
	return nil
}
