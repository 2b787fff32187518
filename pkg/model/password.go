package model

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// PasswordReset is the server-side record behind a reset token.
type PasswordReset struct {
	Kind      string `json:"kind"`
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
}
