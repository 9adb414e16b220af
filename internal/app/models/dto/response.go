package dto

// ErrorResponse is the shared error envelope for all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Instructor not found"`
	Error   string `json:"error,omitempty"`
}

// NewErrorResponse creates an error envelope with a human-readable message.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// WithError attaches the underlying error string, used for 5xx responses in
// development.
func (e ErrorResponse) WithError(err error) ErrorResponse {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
