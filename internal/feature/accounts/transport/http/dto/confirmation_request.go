package dto

// VerifyEmailReq represents the request body for the confirmation verify endpoint.
type VerifyEmailReq struct {
	Code string `json:"code" binding:"required"`
}
