// Package errors provides custom error types for Repario
package errors

import (
	"fmt"
	"net/http"
)

// ReparioError is the base interface for all Repario errors
type ReparioError interface {
	error
	HTTPStatus() int
	Code() string
}

// BaseError is the base implementation of ReparioError
type BaseError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"code"`
	Details    string `json:"details,omitempty"`
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) HTTPStatus() int {
	return e.StatusCode
}

func (e *BaseError) Code() string {
	return e.ErrorCode
}

// NotFoundError represents a resource not found error.
// Ownership misses map here too: a row owned by another user is
// indistinguishable from an absent one.
type NotFoundError struct {
	BaseError
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("%s not found", resource),
			StatusCode: http.StatusNotFound,
			ErrorCode:  "NOT_FOUND",
		},
		Resource: resource,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	BaseError
	Field string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "VALIDATION_ERROR",
		},
		Field: field,
	}
}

// UnauthorizedError represents an authentication error
type UnauthorizedError struct {
	BaseError
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	if message == "" {
		message = "authentication required"
	}
	return &UnauthorizedError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusUnauthorized,
			ErrorCode:  "UNAUTHORIZED",
		},
	}
}

// InternalError represents an internal server error
type InternalError struct {
	BaseError
	OriginalError error
}

func NewInternalError(original error) *InternalError {
	return &InternalError{
		BaseError: BaseError{
			Message:    "internal server error",
			StatusCode: http.StatusInternalServerError,
			ErrorCode:  "INTERNAL_ERROR",
		},
		OriginalError: original,
	}
}

// ConflictError represents a conflict error (e.g., duplicate)
type ConflictError struct {
	BaseError
	Resource string
}

func NewConflictError(resource, message string) *ConflictError {
	if message == "" {
		message = fmt.Sprintf("%s already exists", resource)
	}
	return &ConflictError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusConflict,
			ErrorCode:  "CONFLICT",
		},
		Resource: resource,
	}
}

// BadRequestError represents a generic bad request error
type BadRequestError struct {
	BaseError
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "BAD_REQUEST",
		},
	}
}

// LayoutInUseError is returned when deleting a layout that invoices
// still reference. The payload lets the caller resolve the conflict by
// reassigning those invoices or forcing the delete.
type LayoutInUseError struct {
	BaseError
	InvoiceCount     int64         `json:"invoice_count"`
	AvailableLayouts []LayoutBrief `json:"available_layouts"`
}

// LayoutBrief is the minimal layout description carried in a conflict payload
type LayoutBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewLayoutInUseError(invoiceCount int64, available []LayoutBrief) *LayoutInUseError {
	return &LayoutInUseError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("layout is referenced by %d invoice(s)", invoiceCount),
			StatusCode: http.StatusConflict,
			ErrorCode:  "LAYOUT_IN_USE",
		},
		InvoiceCount:     invoiceCount,
		AvailableLayouts: available,
	}
}

// SimilarCustomersError is returned when an invoice names a customer
// close to one or more existing customers and the caller has not yet
// confirmed a choice.
type SimilarCustomersError struct {
	BaseError
	Exact     bool            `json:"exact"`
	Customers []CustomerBrief `json:"customers"`
}

// CustomerBrief is the minimal customer description carried in a
// similar-customers payload
type CustomerBrief struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

func NewSimilarCustomersError(exact bool, customers []CustomerBrief) *SimilarCustomersError {
	message := "similar customers found, select one or confirm creation"
	if exact {
		message = "customer already exists, select from suggestions"
	}
	return &SimilarCustomersError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusConflict,
			ErrorCode:  "SIMILAR_CUSTOMERS",
		},
		Exact:     exact,
		Customers: customers,
	}
}

// ToHTTPError converts any error to an appropriate HTTP response
func ToHTTPError(err error) (int, map[string]interface{}) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch e := err.(type) {
	case *LayoutInUseError:
		return e.HTTPStatus(), map[string]interface{}{
			"error":             e.Code(),
			"message":           e.Error(),
			"invoice_count":     e.InvoiceCount,
			"available_layouts": e.AvailableLayouts,
		}
	case *SimilarCustomersError:
		return e.HTTPStatus(), map[string]interface{}{
			"error":     e.Code(),
			"message":   e.Error(),
			"exact":     e.Exact,
			"customers": e.Customers,
		}
	}

	if re, ok := err.(ReparioError); ok {
		return re.HTTPStatus(), map[string]interface{}{
			"error":   re.Code(),
			"message": re.Error(),
		}
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError, map[string]interface{}{
		"error":   "INTERNAL_ERROR",
		"message": "internal server error",
	}
}
