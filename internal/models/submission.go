package models

// Submission mirrors a backend vehicle-submission document. Mileage and
// FloorPrice stay numeric; locale formatting happens at render time only.
type Submission struct {
	ID             string  `json:"_id"`
	DealerID       string  `json:"dealerId"`
	Auction        string  `json:"auction"`
	VIN            string  `json:"vin"`
	VehicleYear    int     `json:"vehicleYear"`
	Mileage        int     `json:"mileage"`
	InteriorChoice string  `json:"interiorChoice"`
	Model          string  `json:"model"`
	Series         string  `json:"series"`
	FloorPrice     float64 `json:"floorPrice"`
	Announcement   string  `json:"announcement"`
	Remarks        string  `json:"remarks"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
	Version        int     `json:"__v"`
}

// Key returns the identity used for list rendering and modal selection.
func (s Submission) Key() string { return s.ID }

// SubmissionsResponse is the GET /submissions envelope.
type SubmissionsResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    []Submission `json:"data"`
	Meta    PageMeta     `json:"meta"`
}

// DeleteSubmissionResponse is the DELETE /submissions/:id envelope.
type DeleteSubmissionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
