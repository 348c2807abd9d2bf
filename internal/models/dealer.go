package models

// Dealer mirrors the backend dealer document. ID is the stable render key;
// DealerID is human-assigned and only the backend enforces its uniqueness.
type Dealer struct {
	ID         string `json:"_id"`
	DealerID   string `json:"dealerId"`
	DealerName string `json:"dealerName"`
	Email      string `json:"email"`
	Contact    string `json:"contact"`
	VIN        string `json:"vin,omitempty"`
	Address    string `json:"address,omitempty"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
	Version    int    `json:"__v"`
}

// Key returns the identity used for list rendering and modal selection.
func (d Dealer) Key() string { return d.ID }

// PageMeta is the server-supplied paging block on list responses.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// DealersResponse is the GET /dealer envelope.
type DealersResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    []Dealer `json:"data"`
	Meta    PageMeta `json:"meta"`
}

// CreateDealerPayload is the form-derived create/update body.
type CreateDealerPayload struct {
	DealerID   string `json:"dealerId"`
	DealerName string `json:"dealerName"`
	Email      string `json:"email"`
	Contact    string `json:"contact"`
	VIN        string `json:"vin,omitempty"`
	Address    string `json:"address,omitempty"`
}

// CreateDealerResponse is the POST /dealer/create envelope.
type CreateDealerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    Dealer `json:"data"`
}

// UpdateDealerResponse is the PATCH /dealer/:id envelope.
type UpdateDealerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    Dealer `json:"data"`
}

// DeleteDealerResponse is the DELETE /dealer/:id envelope.
type DeleteDealerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
