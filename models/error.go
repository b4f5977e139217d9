package models

// ErrorResponse is the body returned for every failed request
type ErrorResponse struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse is the body returned for successful mutations without a payload
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthCheckResponse returns the health check response
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
