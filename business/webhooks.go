package business

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

// Webhooks use the 2.0 API.
const webhooksVersion = "2.0"

type WebhookEvent string

const (
	WebhookEventTransactionCreated      WebhookEvent = "TransactionCreated"
	WebhookEventTransactionStateChanged WebhookEvent = "TransactionStateChanged"
	WebhookEventPayoutLinkCreated       WebhookEvent = "PayoutLinkCreated"
	WebhookEventPayoutLinkStateChanged  WebhookEvent = "PayoutLinkStateChanged"
)

type WebhookRequest struct {
	URL    string         `json:"url"`
	Events []WebhookEvent `json:"events,omitempty"`
}

type Webhook struct {
	ID     string         `json:"id"`
	URL    string         `json:"url"`
	Events []WebhookEvent `json:"events"`
}

// CreatedWebhook carries the signing secret, which is only returned on creation
// and rotation.
type CreatedWebhook struct {
	Webhook
	SigningSecret string `json:"signing_secret"`
}

type RotateSigningSecretRequest struct {
	ExpirationPeriod *string `json:"expiration_period,omitempty"`
}

type FailedWebhookEvent struct {
	ID           string  `json:"id"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
	WebhookID    string  `json:"webhook_id"`
	WebhookURL   string  `json:"webhook_url"`
	Payload      string  `json:"payload"`
	LastSentDate *string `json:"last_sent_date,omitempty"`
}

type FailedWebhookEventsParams struct {
	Limit         *int
	CreatedBefore *string
}

func (p FailedWebhookEventsParams) Query() string {
	q := &api.Query{}
	q.AddInt("limit", p.Limit)
	q.AddString("created_before", p.CreatedBefore)
	return q.Encode()
}

func webhookPath(id string) string { return "/webhooks/" + url.PathEscape(id) }

func (c *Client) CreateWebhook(ctx context.Context, req WebhookRequest) (*CreatedWebhook, error) {
	hook, err := api.Request[CreatedWebhook](ctx, c, api.Post(api.JSON(req)), c.uri(webhooksVersion, "/webhooks"))
	if err != nil {
		return nil, err
	}
	return &hook, nil
}

func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	return api.Request[[]Webhook](ctx, c, api.Get(), c.uri(webhooksVersion, "/webhooks"))
}

func (c *Client) GetWebhook(ctx context.Context, webhookID string) (*Webhook, error) {
	hook, err := api.Request[Webhook](ctx, c, api.Get(), c.uri(webhooksVersion, webhookPath(webhookID)))
	if err != nil {
		return nil, err
	}
	return &hook, nil
}

func (c *Client) UpdateWebhook(ctx context.Context, webhookID string, req WebhookRequest) (*Webhook, error) {
	hook, err := api.Request[Webhook](ctx, c, api.Patch(api.JSON(req)), c.uri(webhooksVersion, webhookPath(webhookID)))
	if err != nil {
		return nil, err
	}
	return &hook, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	return c.Do(ctx, api.Delete(), c.uri(webhooksVersion, webhookPath(webhookID)), nil)
}

// RotateWebhookSigningSecret issues a new signing secret. The previous secret
// stays valid for the expiration period when one is given.
func (c *Client) RotateWebhookSigningSecret(ctx context.Context, webhookID string, req RotateSigningSecretRequest) (*CreatedWebhook, error) {
	hook, err := api.Request[CreatedWebhook](ctx, c, api.Post(api.JSON(req)),
		c.uri(webhooksVersion, webhookPath(webhookID)+"/rotate-signing-secret"))
	if err != nil {
		return nil, err
	}
	return &hook, nil
}

func (c *Client) ListFailedWebhookEvents(ctx context.Context, webhookID string, params FailedWebhookEventsParams) ([]FailedWebhookEvent, error) {
	return api.Request[[]FailedWebhookEvent](ctx, c, api.Get(),
		c.uri(webhooksVersion, webhookPath(webhookID)+"/failed-events"+params.Query()))
}
