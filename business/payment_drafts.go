package business

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type PaymentOrder struct {
	ID            string  `json:"id"`
	ScheduledFor  *string `json:"scheduled_for,omitempty"`
	Title         *string `json:"title,omitempty"`
	PaymentsCount int     `json:"payments_count"`
}

type PaymentDrafts struct {
	PaymentOrders []PaymentOrder `json:"payment_orders"`
}

type PaymentReceiver struct {
	CounterpartyID *string `json:"counterparty_id,omitempty"`
	AccountID      *string `json:"account_id,omitempty"`
	CardID         *string `json:"card_id,omitempty"`
}

type DraftPayment struct {
	AccountID string          `json:"account_id"`
	Receiver  PaymentReceiver `json:"receiver"`
	Amount    float64         `json:"amount"`
	Currency  string          `json:"currency"`
	Reference string          `json:"reference"`
}

type PaymentDraftRequest struct {
	Title       *string        `json:"title,omitempty"`
	ScheduleFor *string        `json:"schedule_for,omitempty"`
	Payments    []DraftPayment `json:"payments"`
}

type PaymentDraft struct {
	ScheduledFor *string        `json:"scheduled_for,omitempty"`
	Title        *string        `json:"title,omitempty"`
	Payments     []DraftPayment `json:"payments"`
}

type createdPaymentDraft struct {
	ID string `json:"id"`
}

func (c *Client) ListPaymentDrafts(ctx context.Context) (*PaymentDrafts, error) {
	drafts, err := api.Request[PaymentDrafts](ctx, c, api.Get(), c.uri("1.0", "/payment-drafts"))
	if err != nil {
		return nil, err
	}
	return &drafts, nil
}

// CreatePaymentDraft returns the ID of the new draft.
func (c *Client) CreatePaymentDraft(ctx context.Context, req PaymentDraftRequest) (string, error) {
	created, err := api.Request[createdPaymentDraft](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", "/payment-drafts"))
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) GetPaymentDraft(ctx context.Context, draftID string) (*PaymentDraft, error) {
	draft, err := api.Request[PaymentDraft](ctx, c, api.Get(), c.uri("1.0", "/payment-drafts/"+url.PathEscape(draftID)))
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *Client) DeletePaymentDraft(ctx context.Context, draftID string) error {
	return c.Do(ctx, api.Delete(), c.uri("1.0", "/payment-drafts/"+url.PathEscape(draftID)), nil)
}
