// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"snabbdeal/internal/modules/delivery"
	"snabbdeal/internal/modules/intent"
	"snabbdeal/internal/modules/partner"
	"snabbdeal/internal/modules/payment"
	"snabbdeal/internal/modules/pickup"
	"snabbdeal/internal/modules/pricing"
	"snabbdeal/internal/modules/sale"
	"snabbdeal/internal/modules/testimonial"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// statusFor maps domain sentinels to HTTP status codes. Services wrap
// sentinels with context, so matching goes through errors.Is.
func statusFor(err error) int {
	switch {
	case errors.Is(err, intent.ErrNotFound),
		errors.Is(err, intent.ErrSellerNotFound),
		errors.Is(err, delivery.ErrNotFound),
		errors.Is(err, partner.ErrNotFound),
		errors.Is(err, sale.ErrNotFound),
		errors.Is(err, pickup.ErrNotFound),
		errors.Is(err, testimonial.ErrDeliveryMissing),
		errors.Is(err, payment.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, intent.ErrAcknowledged),
		errors.Is(err, delivery.ErrInvalidState),
		errors.Is(err, partner.ErrEmailTaken),
		errors.Is(err, testimonial.ErrAlreadyReviewed):
		return http.StatusConflict
	case errors.Is(err, intent.ErrPaymentIncomplete):
		return http.StatusPaymentRequired
	case errors.Is(err, partner.ErrNotVerified):
		return http.StatusForbidden
	case errors.Is(err, payment.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, intent.ErrBadRequest),
		errors.Is(err, intent.ErrSellerNotResponded),
		errors.Is(err, delivery.ErrBadRequest),
		errors.Is(err, delivery.ErrInvalidStatus),
		errors.Is(err, delivery.ErrProofRequired),
		errors.Is(err, partner.ErrBadRequest),
		errors.Is(err, sale.ErrBadRequest),
		errors.Is(err, pickup.ErrInvalidStatus),
		errors.Is(err, testimonial.ErrBadRequest),
		errors.Is(err, payment.ErrNoCheckoutInProgress),
		errors.Is(err, pricing.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(c, status, msg)
}
