package merchant

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/revolut-cli/revolut-cli/api"
)

// WebhookEvent names are upper snake case on the wire.
type WebhookEvent string

const (
	WebhookOrderCompleted            WebhookEvent = "ORDER_COMPLETED"
	WebhookOrderAuthorised           WebhookEvent = "ORDER_AUTHORISED"
	WebhookOrderCancelled            WebhookEvent = "ORDER_CANCELLED"
	WebhookOrderPaymentAuthenticated WebhookEvent = "ORDER_PAYMENT_AUTHENTICATED"
	WebhookOrderPaymentDeclined      WebhookEvent = "ORDER_PAYMENT_DECLINED"
	WebhookOrderPaymentFailed        WebhookEvent = "ORDER_PAYMENT_FAILED"
	WebhookPayoutInitiated           WebhookEvent = "PAYOUT_INITIATED"
	WebhookPayoutCompleted           WebhookEvent = "PAYOUT_COMPLETED"
	WebhookPayoutFailed              WebhookEvent = "PAYOUT_FAILED"
	WebhookDisputeActionRequired     WebhookEvent = "DISPUTE_ACTION_REQUIRED"
	WebhookDisputeUnderReview        WebhookEvent = "DISPUTE_UNDER_REVIEW"
	WebhookDisputeWon                WebhookEvent = "DISPUTE_WON"
	WebhookDisputeLost               WebhookEvent = "DISPUTE_LOST"
)

func (e *WebhookEvent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = WebhookEvent(strings.ToUpper(s))
	return nil
}

type WebhookRequest struct {
	URL    string         `json:"url"`
	Events []WebhookEvent `json:"events"`
}

type Webhook struct {
	ID            string         `json:"id"`
	URL           *string        `json:"url,omitempty"`
	Events        []WebhookEvent `json:"events,omitempty"`
	SigningSecret *string        `json:"signing_secret,omitempty"`
}

type RotateSigningSecretRequest struct {
	ExpirationPeriod *string `json:"expiration_period,omitempty"`
}

func webhookPath(id string) string { return "/webhooks/" + url.PathEscape(id) }

func (c *Client) CreateWebhook(ctx context.Context, req WebhookRequest) (*Webhook, error) {
	return request[Webhook](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", "/webhooks"))
}

func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	return api.Request[[]Webhook](ctx, c, api.Get(), c.uri("1.0", "/webhooks"))
}

func (c *Client) GetWebhook(ctx context.Context, webhookID string) (*Webhook, error) {
	return request[Webhook](ctx, c, api.Get(), c.uri("1.0", webhookPath(webhookID)))
}

// UpdateWebhook replaces the URL and events of a webhook.
func (c *Client) UpdateWebhook(ctx context.Context, webhookID string, req WebhookRequest) (*Webhook, error) {
	return request[Webhook](ctx, c, api.Put(api.JSON(req)), c.uri("1.0", webhookPath(webhookID)))
}

func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	return c.Do(ctx, api.Delete(), c.uri("1.0", webhookPath(webhookID)), nil)
}

func (c *Client) RotateWebhookSigningSecret(ctx context.Context, webhookID string, req RotateSigningSecretRequest) (*Webhook, error) {
	return request[Webhook](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", webhookPath(webhookID)+"/rotate-signing-secret"))
}
