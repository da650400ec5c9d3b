package api

import (
	"fmt"
	"time"

	"fleetopt/internal/config"
	"fleetopt/internal/model"
	"fleetopt/internal/solver"
)

// buildInput converts a validated wire request into a solver Input.
func buildInput(req *model.SolveRequest) (*solver.Input, error) {
	m := solver.Matrix(make([][]solver.Cost, len(req.Matrix)))
	for i, row := range req.Matrix {
		m[i] = row
	}
	dim := len(req.Vehicles[0].Capacity)

	jobs := make([]solver.Job, len(req.Jobs))
	for i, j := range req.Jobs {
		job := solver.Job{
			Index:    j.LocationIndex,
			Pickup:   solver.Amount(j.Pickup),
			Delivery: solver.Amount(j.Delivery),
			Service:  j.ServiceSec,
			Skills:   j.Skills,
		}
		if job.Pickup == nil {
			job.Pickup = solver.ZeroAmount(dim)
		}
		if job.Delivery == nil {
			job.Delivery = solver.ZeroAmount(dim)
		}
		for _, tw := range j.TimeWindows {
			job.TWs = append(job.TWs, solver.TimeWindow{Start: tw[0], End: tw[1]})
		}
		jobs[i] = job
	}

	vehicles := make([]solver.Vehicle, len(req.Vehicles))
	for i, v := range req.Vehicles {
		vehicle := solver.Vehicle{
			Capacity: solver.Amount(v.Capacity),
			Start:    v.Start,
			End:      v.End,
			Skills:   v.Skills,
		}
		if v.TimeWindow != nil {
			vehicle.TW = solver.TimeWindow{Start: v.TimeWindow[0], End: v.TimeWindow[1]}
		}
		vehicles[i] = vehicle
	}
	return solver.NewInput(jobs, vehicles, m)
}

func pickVariant(req *model.SolveRequest) solver.Variant {
	for _, j := range req.Jobs {
		if len(j.TimeWindows) > 0 {
			return solver.VariantTimeWindow
		}
	}
	for _, v := range req.Vehicles {
		if v.TimeWindow != nil {
			return solver.VariantTimeWindow
		}
	}
	return solver.VariantCapacity
}

func pickStrategy(name string, cfg config.SolverConfig) (solver.Strategy, string) {
	if name == "" {
		name = cfg.Strategy
	}
	if name == "dynamic" {
		return solver.StrategyDynamicVehicleChoice, name
	}
	return solver.StrategyBasic, "basic"
}

func pickInit(name string, cfg config.SolverConfig) (solver.Init, string, error) {
	if name == "" {
		name = cfg.Init
	}
	switch name {
	case "", "none":
		return solver.InitNone, "none", nil
	case "higher_amount":
		return solver.InitHigherAmount, name, nil
	case "earliest_deadline":
		return solver.InitEarliestDeadline, name, nil
	case "furthest":
		return solver.InitFurthest, name, nil
	case "nearest":
		return solver.InitNearest, name, nil
	}
	return solver.InitNone, "", fmt.Errorf("invalid init: %s", name)
}

// runSolve builds, constructs and optionally improves a solution,
// reporting progress through publish.
func (s *Server) runSolve(req *model.SolveRequest, publish func(SolveEvent)) (model.SolutionRecord, error) {
	in, err := buildInput(req)
	if err != nil {
		return model.SolutionRecord{}, err
	}

	cfg := s.Cfg.Solver
	variant := pickVariant(req)
	strategy, strategyName := pickStrategy(req.Options.Strategy, cfg)
	init, initName, err := pickInit(req.Options.Init, cfg)
	if err != nil {
		return model.SolutionRecord{}, err
	}
	lambda := req.Options.Lambda
	if lambda == 0 {
		lambda = cfg.Lambda
	}

	start := time.Now()
	publish(SolveEvent{Type: "solve.started", Data: map[string]any{
		"strategy": strategyName, "init": initName, "jobs": len(req.Jobs), "vehicles": len(req.Vehicles),
	}})

	sol := solver.Construct(in, variant, strategy, init, lambda)

	moves := 0
	var gain solver.Gain
	runLS := variant == solver.VariantCapacity
	if req.Options.LocalSearch != nil {
		runLS = runLS && *req.Options.LocalSearch
	}
	if runLS {
		if raw, ok := sol.RawRoutes(); ok {
			maxMoves := req.Options.MaxMoves
			if maxMoves == 0 {
				maxMoves = cfg.MaxMoves
			}
			ls := solver.NewLocalSearch(in, raw)
			moves, gain = ls.Run(maxMoves)
			if moves > 0 {
				publish(SolveEvent{Type: "solve.improved", Data: map[string]any{
					"moves": moves, "gain": gain,
				}})
			}
		}
	}

	rec := model.SolutionRecord{
		TenantID:  req.TenantID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Strategy:  strategyName,
		Init:      initName,
		Lambda:    lambda,
		TotalCost: sol.Cost(in),
	}
	for vRank, r := range sol.Routes {
		out := model.RouteOut{
			VehicleID: vehicleID(req, vRank),
			JobIDs:    []string{},
			Cost:      solver.RouteCost(in, vRank, r.Visits()),
		}
		for _, j := range r.Visits() {
			out.JobIDs = append(out.JobIDs, jobID(req, j))
		}
		rec.Routes = append(rec.Routes, out)
	}
	rec.Unassigned = []string{}
	for _, j := range sol.Unassigned {
		rec.Unassigned = append(rec.Unassigned, jobID(req, j))
	}
	rec.Metrics = model.SolveMetrics{
		AssignedJobs:     sol.AssignedCount(),
		UnassignedJobs:   len(sol.Unassigned),
		LocalSearchMoves: moves,
		LocalSearchGain:  gain,
		DurationMs:       time.Since(start).Milliseconds(),
	}
	return rec, nil
}

func jobID(req *model.SolveRequest, rank int) string {
	if id := req.Jobs[rank].ID; id != "" {
		return id
	}
	return fmt.Sprintf("job-%d", rank)
}

func vehicleID(req *model.SolveRequest, rank int) string {
	if id := req.Vehicles[rank].ID; id != "" {
		return id
	}
	return fmt.Sprintf("vehicle-%d", rank)
}
