package dto

// CreateCustomerRequest registers a new ledger customer.
type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   string  `json:"phone" validate:"required"`
	Address *string `json:"address"`
	Email   *string `json:"email" validate:"omitempty,email"`
}

// CustomerFilter filters the customer listing.
type CustomerFilter struct {
	Search string `form:"search"`
	Active string `form:"active"` // "false" | "all" | default active
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// CustomerResponse is the customer view model.
type CustomerResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address *string `json:"address,omitempty"`
	Email   *string `json:"email,omitempty"`
	Active  bool    `json:"active"`
}

// CustomerListResponse is the paginated customer envelope.
type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
