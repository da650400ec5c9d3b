package model

// Wire types for the solve API.

// JobIn is one service task in a solve request.
type JobIn struct {
	ID            string     `json:"id,omitempty"`
	LocationIndex int        `json:"locationIndex"`
	Pickup        []int64    `json:"pickup,omitempty"`
	Delivery      []int64    `json:"delivery,omitempty"`
	ServiceSec    int64      `json:"serviceSec,omitempty"`
	Skills        []string   `json:"skills,omitempty"`
	TimeWindows   [][2]int64 `json:"timeWindows,omitempty"`
}

// VehicleIn describes one vehicle in a solve request. Start and End are
// optional matrix indices.
type VehicleIn struct {
	ID         string    `json:"id,omitempty"`
	Capacity   []int64   `json:"capacity"`
	Start      *int      `json:"start,omitempty"`
	End        *int      `json:"end,omitempty"`
	Skills     []string  `json:"skills,omitempty"`
	TimeWindow *[2]int64 `json:"timeWindow,omitempty"`
}

// SolveOptions selects the heuristic configuration.
type SolveOptions struct {
	Strategy    string  `json:"strategy,omitempty"` // basic, dynamic
	Init        string  `json:"init,omitempty"`     // none, higher_amount, earliest_deadline, furthest, nearest
	Lambda      float64 `json:"lambda,omitempty"`
	LocalSearch *bool   `json:"localSearch,omitempty"`
	MaxMoves    int     `json:"maxMoves,omitempty"`
}

// SolveRequest is the POST /v1/solve body.
type SolveRequest struct {
	TenantID string       `json:"tenantId,omitempty"`
	Matrix   [][]int64    `json:"matrix"`
	Jobs     []JobIn      `json:"jobs"`
	Vehicles []VehicleIn  `json:"vehicles"`
	Options  SolveOptions `json:"options,omitempty"`
}

// RouteOut is one vehicle's planned visit sequence.
type RouteOut struct {
	VehicleID string   `json:"vehicleId"`
	JobIDs    []string `json:"jobIds"`
	Cost      int64    `json:"cost"`
}

// SolveMetrics summarizes one solver run.
type SolveMetrics struct {
	AssignedJobs     int   `json:"assignedJobs"`
	UnassignedJobs   int   `json:"unassignedJobs"`
	LocalSearchMoves int   `json:"localSearchMoves"`
	LocalSearchGain  int64 `json:"localSearchGain"`
	DurationMs       int64 `json:"durationMs"`
}

// SolutionRecord is the stored and returned result of a solve.
type SolutionRecord struct {
	ID         string       `json:"id"`
	TenantID   string       `json:"tenantId"`
	CreatedAt  string       `json:"createdAt"`
	Strategy   string       `json:"strategy"`
	Init       string       `json:"init"`
	Lambda     float64      `json:"lambda"`
	Routes     []RouteOut   `json:"routes"`
	Unassigned []string     `json:"unassigned"`
	TotalCost  int64        `json:"totalCost"`
	Metrics    SolveMetrics `json:"metrics"`
}

// SubscriptionRequest registers a webhook endpoint for solve events.
type SubscriptionRequest struct {
	TenantID string   `json:"tenantId"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	Secret   string   `json:"secret"`
}

// Subscription is a stored webhook registration.
type Subscription struct {
	ID       string   `json:"id"`
	TenantID string   `json:"tenantId"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	Secret   string   `json:"secret,omitempty"`
}
