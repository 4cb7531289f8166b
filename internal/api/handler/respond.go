// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"walpay-wallet/internal/api/types"
	"walpay-wallet/internal/util"
)

// DefaultTimeout bounds every request handled by the router.
const DefaultTimeout = 30 * time.Second

const (
	defaultPageLimit = 10
	maxPageLimit     = 100

	internalErrorMessage = "Something went wrong, please try again"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// responder holds the JSON helpers shared by all handlers.
type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps the error taxonomy onto HTTP status codes. Client
// errors carry only the text after the sentinel; wrap prefixes stay in logs.
func (h responder) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := internalErrorMessage

	switch {
	case util.IsError(err, util.ErrValidation):
		statusCode = http.StatusBadRequest
		message = util.Detail(err, util.ErrValidation)
	case util.IsError(err, util.ErrPolicyViolation):
		statusCode = http.StatusBadRequest
		message = util.Detail(err, util.ErrPolicyViolation)
	case util.IsError(err, util.ErrInvalidAmount):
		statusCode = http.StatusBadRequest
		message = util.Detail(err, util.ErrInvalidAmount)
	case util.IsError(err, util.ErrSelfTransferNotAllowed):
		statusCode = http.StatusBadRequest
		message = "Cannot transfer to yourself"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired
		message = "Insufficient funds"
	case util.IsError(err, util.ErrRecipientNotFound):
		statusCode = http.StatusNotFound
		message = "Recipient not found"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrAlreadyProcessed):
		statusCode = http.StatusConflict
		message = "Transaction already processed"
	case util.IsError(err, util.ErrAmountMismatch):
		statusCode = http.StatusConflict
		message = "Amount does not match the pending transaction"
	case util.IsError(err, util.ErrOwnerMismatch):
		statusCode = http.StatusConflict
		message = "Transaction belongs to another user"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = "Phone or email already registered"
	case util.IsError(err, util.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = "Unauthorized"
	case util.IsError(err, util.ErrInvalidState):
		h.logger.Error("Ledger invariant violated", "error", err)
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}
	if statusCode < http.StatusInternalServerError {
		h.logger.Debug("Request rejected", "status", statusCode, "error", err)
	}

	h.respondWithJSON(w, statusCode, types.ErrorResponse{Error: message})
}

// decodeJSON decodes the request body into dst and validates its struct tags.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", util.ErrValidation)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", util.ErrValidation, util.DescribeValidation(err))
	}
	return nil
}

// parsePagination reads limit and offset, falling back to defaults.
func parsePagination(r *http.Request) (limit, offset int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset, err = strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
