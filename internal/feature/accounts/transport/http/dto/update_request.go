package dto

// UpdateAccountReq represents the request body for a partial account update.
// Omitted fields are left unchanged.
type UpdateAccountReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
}
