package solver

import "testing"

// Coords: depot at 0, two stops at 10 and 20.
func twInput(t *testing.T, vehicleTW TimeWindow, jobs []Job) *Input {
	t.Helper()
	m := lineMatrix([]int64{0, 10, 20})
	vehicles := []Vehicle{{
		Capacity: Amount{10},
		TW:       vehicleTW,
		Start:    intPtr(0),
		End:      intPtr(0),
	}}
	return mustInput(t, jobs, vehicles, m)
}

func TestTWRouteSchedule(t *testing.T) {
	in := twInput(t, TimeWindow{0, 100}, []Job{
		{Index: 1, Service: 5, Delivery: Amount{1}, TWs: []TimeWindow{{10, 20}}},
		{Index: 2, Service: 5, Delivery: Amount{1}, TWs: []TimeWindow{{40, 50}}},
	})
	r := NewTWRoute(in, 0)

	if !r.IsValidAdditionForTW(in, 0, 0) {
		t.Fatal("first insertion should be feasible")
	}
	r.Add(in, 0, 0)
	r.UpdateAmounts(in)
	if r.Earliest(0) != 10 {
		t.Fatalf("earliest[0] = %d, want 10", r.Earliest(0))
	}
	if r.Latest(0) != 20 {
		t.Fatalf("latest[0] = %d, want 20", r.Latest(0))
	}

	// After the first stop: depart 15, arrive 25, wait for the window.
	if !r.IsValidAdditionForTW(in, 1, 1) {
		t.Fatal("append should be feasible")
	}
	// Before the first stop it pushes the successor past its latest
	// start.
	if r.IsValidAdditionForTW(in, 1, 0) {
		t.Fatal("prepend must not be feasible")
	}

	r.Add(in, 1, 1)
	r.UpdateAmounts(in)
	if r.Earliest(1) != 40 {
		t.Fatalf("earliest[1] = %d, want 40", r.Earliest(1))
	}
	// Shift end 100, return leg 20, service 5.
	if r.Latest(1) != 50 {
		t.Fatalf("latest[1] = %d, want 50", r.Latest(1))
	}
}

func TestTWRouteDeadlineMiss(t *testing.T) {
	in := twInput(t, TimeWindow{0, 100}, []Job{
		{Index: 2, Service: 0, TWs: []TimeWindow{{0, 5}}},
	})
	r := NewTWRoute(in, 0)
	// Arrival at 20 is past the only window.
	if r.IsValidAdditionForTW(in, 0, 0) {
		t.Fatal("expired window must be infeasible")
	}
}

func TestTWRouteShiftEnd(t *testing.T) {
	in := twInput(t, TimeWindow{0, 30}, []Job{
		{Index: 1, Service: 5},
		{Index: 2, Service: 5},
	})
	r := NewTWRoute(in, 0)
	// 10 out, 5 service, 10 back: 25 <= 30.
	if !r.IsValidAdditionForTW(in, 0, 0) {
		t.Fatal("near stop should fit the shift")
	}
	// 20 out, 5 service, 20 back: 45 > 30.
	if r.IsValidAdditionForTW(in, 1, 0) {
		t.Fatal("far stop must not fit the shift")
	}
}

func TestTWRouteMultipleWindows(t *testing.T) {
	in := twInput(t, TimeWindow{0, 200}, []Job{
		{Index: 1, Service: 0, TWs: []TimeWindow{{0, 5}, {50, 60}}},
	})
	r := NewTWRoute(in, 0)
	if !r.IsValidAdditionForTW(in, 0, 0) {
		t.Fatal("second window should catch the arrival")
	}
	r.Add(in, 0, 0)
	r.UpdateAmounts(in)
	// Arrival 10 misses [0,5]; service waits for the second window.
	if r.Earliest(0) != 50 {
		t.Fatalf("earliest[0] = %d, want 50", r.Earliest(0))
	}
}
