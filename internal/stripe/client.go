// README: Stripe Checkout adapter implementing the payment provider contract.
package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"snabbdeal/internal/modules/payment"
)

// Client wraps one process-wide Stripe API client. It is constructed once
// at startup and injected into every flow that creates or polls sessions.
type Client struct {
	api *client.API
}

var _ payment.Provider = (*Client)(nil)

func NewClient(apiKey string) *Client {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Client{api: api}
}

func (c *Client) CreateSession(ctx context.Context, in payment.CreateSessionInput) (payment.Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(in.Items))
	for _, item := range in.Items {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.ImageURL != "" {
			product.Images = stripe.StringSlice([]string{item.ImageURL})
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(in.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(item.AmountCents),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
	}
	params.Context = ctx
	if in.IdempotencyKey != "" {
		params.SetIdempotencyKey(in.IdempotencyKey)
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return payment.Session{}, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return payment.Session{ID: sess.ID, URL: sess.URL}, nil
}

func (c *Client) SessionStatus(ctx context.Context, sessionID string) (payment.SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return "", fmt.Errorf("stripe: retrieve checkout session %s: %w", sessionID, err)
	}

	switch {
	case sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		return payment.StatusPaid, nil
	case sess.Status == stripe.CheckoutSessionStatusExpired:
		return payment.StatusExpired, nil
	case sess.Status == stripe.CheckoutSessionStatusOpen,
		sess.Status == stripe.CheckoutSessionStatusComplete:
		return payment.StatusPending, nil
	default:
		return payment.StatusFailed, nil
	}
}
