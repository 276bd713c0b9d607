package merchant

import (
	"context"

	"github.com/revolut-cli/revolut-cli/api"
)

type RegisterDomainRequest struct {
	Domain string `json:"domain"`
}

type UnregisterDomainRequest struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}

// RegisterApplePayDomain is only available in production.
func (c *Client) RegisterApplePayDomain(ctx context.Context, req RegisterDomainRequest) error {
	if err := c.env.Require(api.CapabilityApplePay); err != nil {
		return err
	}
	return c.Do(ctx, api.Post(api.JSON(req)), c.unversioned("/apple-pay/domains/register"), nil)
}

func (c *Client) UnregisterApplePayDomain(ctx context.Context, req UnregisterDomainRequest) error {
	if err := c.env.Require(api.CapabilityApplePay); err != nil {
		return err
	}
	return c.Do(ctx, api.Post(api.JSON(req)), c.unversioned("/apple-pay/domains/unregister"), nil)
}
