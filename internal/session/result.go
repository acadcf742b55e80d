package session

import (
	"encoding/json"

	"github.com/Likhith-Bhargav/talent-link/internal/models"
)

// Result is the structured outcome of user-facing auth flows. Expected
// failures are reported here instead of as Go errors so callers never need
// error handling for routine failure modes.
type Result struct {
	Success              bool
	RequiresVerification bool
	User                 *models.User
	Message              string
	Error                string
	Details              map[string]json.RawMessage
}

// User-displayable messages keyed to failure modes.
const (
	msgLoginInvalid     = "Invalid email/username or password."
	msgAccountInactive  = "Your account is not active. Please check your email for an activation link."
	msgNoConnection     = "Unable to connect to the server. Please check your internet connection."
	msgLoginOK          = "Login successful!"
	msgRegisteredLogin  = "Registration successful! You are now logged in."
	msgRegisteredVerify = "Registration successful! Please check your email to verify your account."
)

// Credentials identifies an account by username or email.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload. Password1/Password2 mirror the
// backend's confirmation pair.
type Registration struct {
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Password1 string          `json:"password1"`
	Password2 string          `json:"password2"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	UserType  models.UserType `json:"user_type"`
}
