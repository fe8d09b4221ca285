package dto

import (
	"errors"
	"net/http"

	"github.com/erp/warehouse/internal/domain/shared"
	"github.com/erp/warehouse/internal/domain/stock"
)

// Error codes that do not come from the domain
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeTooLarge   = "REQUEST_TOO_LARGE"
	ErrCodeBadTenant  = "INVALID_TENANT"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Domain codes that are not
// listed are client input errors and map to 400.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeTooLarge:   http.StatusRequestEntityTooLarge,
	ErrCodeBadTenant:  http.StatusBadRequest,

	shared.CodeNotFound:           http.StatusNotFound,
	shared.CodeAlreadyExists:      http.StatusConflict,
	shared.CodeConcurrency:        http.StatusConflict,
	shared.CodeDuplicateRequest:   http.StatusConflict,
	shared.CodeAlreadyMatched:     http.StatusConflict,
	shared.CodeInvalidInput:       http.StatusBadRequest,
	shared.CodeInvalidState:       http.StatusConflict,
	shared.CodeInsufficientStock:  http.StatusUnprocessableEntity,
	shared.CodeInvariantViolation: http.StatusInternalServerError,

	stock.ErrLineNotDraft.Code:     http.StatusConflict,
	stock.ErrLineNotConfirmed.Code: http.StatusConflict,
	stock.ErrLineHasMatches.Code:   http.StatusConflict,
	stock.ErrLotRequired.Code:      http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}

// FromError converts an error returned by the services into a status code and error body.
// Errors that are not domain errors are reported as internal without their message.
func FromError(err error, requestID string) (int, Response) {
	var insufficient *stock.InsufficientStockError
	if errors.As(err, &insufficient) {
		resp := NewErrorResponse(shared.CodeInsufficientStock, insufficient.Error(), requestID)
		resp.Error.Context = map[string]any{
			"good_id":      insufficient.GoodID,
			"warehouse_id": insufficient.WarehouseID,
			"lot_number":   insufficient.LotNumber,
			"requested":    insufficient.Requested,
			"available":    insufficient.Available,
			"shortfall":    insufficient.Shortfall(),
		}
		return http.StatusUnprocessableEntity, resp
	}

	var matched *stock.AlreadyMatchedError
	if errors.As(err, &matched) {
		resp := NewErrorResponse(shared.CodeAlreadyMatched, matched.Error(), requestID)
		resp.Error.Context = map[string]any{
			"line_id":   matched.LineID,
			"quantity":  matched.Quantity,
			"remaining": matched.Remaining,
		}
		return http.StatusConflict, resp
	}

	var invariant *stock.InvariantViolationError
	if errors.As(err, &invariant) {
		return http.StatusInternalServerError, NewErrorResponse(shared.CodeInvariantViolation, invariant.Error(), requestID)
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return GetHTTPStatus(domainErr.Code), NewErrorResponse(domainErr.Code, domainErr.Message, requestID)
	}

	return http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, "An unexpected error occurred", requestID)
}
