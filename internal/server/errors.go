package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	billingdomain "github.com/paswerklabs/paswerk/internal/billing/domain"
	customerdomain "github.com/paswerklabs/paswerk/internal/customer/domain"
	invoicedomain "github.com/paswerklabs/paswerk/internal/invoice/domain"
	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
)

type validationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *validationError) Error() string { return e.Message }

func newValidationError(field, code, message string) error {
	return &validationError{Field: field, Code: code, Message: message}
}

// AbortWithError maps service errors onto HTTP statuses. Unknown errors are
// logged by the recovery path and become a generic 500.
func AbortWithError(c *gin.Context, err error) {
	var verr *validationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": verr})
		return
	}
	if isBindingError(err) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, customerdomain.ErrClientNotFound),
		errors.Is(err, customerdomain.ErrLocationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, invoicedomain.ErrInvalidPeriod),
		errors.Is(err, invoicedomain.ErrInvalidVATRate),
		errors.Is(err, invoicedomain.ErrInvalidPaymentTerm),
		errors.Is(err, ratesdomain.ErrInvalidPassType),
		errors.Is(err, billingdomain.ErrInvalidPolicy):
		status = http.StatusBadRequest
	case errors.Is(err, billingdomain.ErrMalformedShiftTime),
		errors.Is(err, billingdomain.ErrNegativeShiftDuration),
		errors.Is(err, invoicedomain.ErrMalformedInvoiceText),
		errors.Is(err, ratesdomain.ErrDuplicateRateTable):
		status = http.StatusUnprocessableEntity
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// isBindingError recognizes request decoding failures from gin's JSON binder.
func isBindingError(err error) bool {
	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &verrs) ||
		errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
