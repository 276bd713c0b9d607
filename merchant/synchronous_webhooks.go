package merchant

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

// EventValidateAddress is the only synchronous webhook event.
const EventValidateAddress = "fast_checkout.validate_address"

// AddressValidationRequest registers the endpoint that validates shipping
// addresses during fast checkout.
type AddressValidationRequest struct {
	EventType  string  `json:"event_type"`
	URL        string  `json:"url"`
	LocationID *string `json:"location_id,omitempty"`
}

type SynchronousWebhook struct {
	ID         string  `json:"id"`
	SigningKey string  `json:"signing_key"`
	URL        string  `json:"url"`
	EventType  string  `json:"event_type"`
	LocationID *string `json:"location_id,omitempty"`
}

// RegisterAddressValidationEndpoint is only available in production.
// An empty EventType defaults to EventValidateAddress.
func (c *Client) RegisterAddressValidationEndpoint(ctx context.Context, req AddressValidationRequest) (*SynchronousWebhook, error) {
	if err := c.env.Require(api.CapabilityFastCheckout); err != nil {
		return nil, err
	}
	if req.EventType == "" {
		req.EventType = EventValidateAddress
	}
	return request[SynchronousWebhook](ctx, c, api.Post(api.JSON(req)), c.unversioned("/synchronous-webhooks"))
}

func (c *Client) ListSynchronousWebhooks(ctx context.Context) ([]SynchronousWebhook, error) {
	if err := c.env.Require(api.CapabilityFastCheckout); err != nil {
		return nil, err
	}
	return api.Request[[]SynchronousWebhook](ctx, c, api.Get(), c.unversioned("/synchronous-webhooks"))
}

func (c *Client) DeleteSynchronousWebhook(ctx context.Context, webhookID string) error {
	if err := c.env.Require(api.CapabilityFastCheckout); err != nil {
		return err
	}
	return c.Do(ctx, api.Delete(), c.unversioned("/synchronous-webhooks/"+url.PathEscape(webhookID)), nil)
}
