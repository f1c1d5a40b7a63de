package models

// UserInfo is the slice of the user record this core reads. User identity
// and credentials are owned by the session layer, not here.
type UserInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error Error `json:"error"`
}
