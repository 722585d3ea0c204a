package types

// Result is the flat acknowledgement returned by mutating endpoints.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope keeps the flat success/message keys older clients read next to the typed error.
type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Detail  string   `json:"detail"`
	Error   APIError `json:"error"`
}
