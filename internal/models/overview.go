package models

// OverviewStats is the aggregate recomputed server-side on every fetch.
// It is never persisted client-side.
type OverviewStats struct {
	TotalDealers       int `json:"totalDealers"`
	TotalAnnouncements int `json:"totalAnnouncements"`
}

// OverviewResponse is the GET /submissions/totals envelope.
type OverviewResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    OverviewStats `json:"data"`
}
