package dto

// CreateAuthenticationTokenRequestBody defines the request body for CreateSession service.
type CreateAuthenticationTokenRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequestBody defines the request body for RefreshSession service.
type RefreshTokenRequestBody struct {
	RefreshToken string `json:"refresh_token"`
}
