package dto

// SessionUser is the claim subset exposed to the browser shell.
type SessionUser struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	Role           string `json:"role,omitempty"`
	EmailVerified  int    `json:"email_verified"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// SessionVerdict is the response of the session introspection endpoint.
type SessionVerdict struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}
