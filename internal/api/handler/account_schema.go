package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Name  string `json:"name"  validate:"required,max=80"`
	Email string `json:"email" validate:"required,email,max=160"`
}

// registerResponse returns the generated password once. It is also emailed.
type registerResponse struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type uploadImageRequest struct {
	Base64Image string `json:"base64Image" validate:"required"`
}

type uploadImageResponse struct {
	Image string `json:"image"`
}
