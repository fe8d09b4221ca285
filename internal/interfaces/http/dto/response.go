package dto

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
	// Context carries machine-readable facts about the failure, e.g. the shortfall
	// of an insufficient stock error
	Context map[string]any `json:"context,omitempty"`
}

// ValidationDetail describes one invalid request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta represents pagination metadata
type Meta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Count    int `json:"count"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewListResponse creates a success response for one page of a list
func NewListResponse(data any, count, page, pageSize int) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta:    &Meta{Page: page, PageSize: pageSize, Count: count},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message, RequestID: requestID},
	}
}

// NewValidationErrorResponse creates a 400 response body listing invalid fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeValidation,
			Message:   message,
			RequestID: requestID,
			Details:   details,
		},
	}
}

// ListRequest represents common list/pagination query parameters
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
