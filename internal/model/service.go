package model

// Service is one entry in a provider's catalog: a braid style with its
// average duration and price. Appointments reference services by name, not
// by id, so catalog edits never invalidate past bookings.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	AvgTime     float64 `json:"avgTime"` // hours, e.g. 2.5 = 2h30
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	MaterialReq string  `json:"materialReq,omitempty"`
}
