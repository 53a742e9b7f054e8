package dto

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse reports field-level validation failures.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// ConnectionTestResponse is returned by the database reachability probe.
type ConnectionTestResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
