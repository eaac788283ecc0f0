package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createSweetRequest struct {
	Name     string  `json:"name"     validate:"required"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

// updateSweetRequest is a partial update; absent fields stay untouched.
// Field-level checks on supplied values live in the service so that blank
// strings are distinguishable from absent ones.
type updateSweetRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

type searchSweetsRequest struct {
	Name     string   `query:"name"`
	Category string   `query:"category"`
	MinPrice *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
}

type restockRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}
