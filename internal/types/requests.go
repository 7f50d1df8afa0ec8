package types

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Message     string `json:"message"`
}

type AddAllergyRequest struct {
	Allergy string `json:"allergy" binding:"required"`
}

type EditAllergyRequest struct {
	OldName string `json:"old_name" binding:"required"`
	NewName string `json:"new_name" binding:"required"`
}

// AllergyListRequest carries a batch of allergy names for the batch and
// save endpoints.
type AllergyListRequest struct {
	Allergies []string `json:"allergies" binding:"required,min=1"`
}

type CheckProductRequest struct {
	ProductName string `json:"product_name" binding:"required"`
}

type CheckProductResponse struct {
	ProductName string `json:"product_name"`
	Verdict     string `json:"verdict"`
	Explanation string `json:"explanation"`
}

type ResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

type ProfileResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
