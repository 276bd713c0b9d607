package merchant

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type PayoutState string

const (
	PayoutProcessing PayoutState = "processing"
	PayoutCompleted  PayoutState = "completed"
	PayoutFailed     PayoutState = "failed"
)

func (s *PayoutState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = PayoutState(v)
	return err
}

type PayoutDestinationType string

const (
	PayoutToCurrentPocket       PayoutDestinationType = "current_pocket"
	PayoutToExternalBeneficiary PayoutDestinationType = "external_beneficiary"
)

func (t *PayoutDestinationType) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*t = PayoutDestinationType(v)
	return err
}

// Payout is a settlement of merchant funds.
type Payout struct {
	ID              string                `json:"id"`
	State           PayoutState           `json:"state"`
	CreatedAt       string                `json:"created_at"`
	DestinationType PayoutDestinationType `json:"destination_type"`
	Amount          *int64                `json:"amount,omitempty"`
	Currency        *string               `json:"currency,omitempty"`
}

func (c *Client) ListPayouts(ctx context.Context) ([]Payout, error) {
	return api.Request[[]Payout](ctx, c, api.Get(), c.unversioned("/payouts"))
}

func (c *Client) GetPayout(ctx context.Context, payoutID string) (*Payout, error) {
	return request[Payout](ctx, c, api.Get(), c.unversioned("/payouts/"+url.PathEscape(payoutID)))
}
