package request

type SignUpRequest struct {
	Username string `json:"username" validate:"required,max=150,username,notme"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

type TokenRequest struct {
	Username         string `json:"username" validate:"required"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}
