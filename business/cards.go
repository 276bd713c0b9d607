package business

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type CardState string

const (
	CardStateCreated CardState = "created"
	CardStatePending CardState = "pending"
	CardStateActive  CardState = "active"
	CardStateFrozen  CardState = "frozen"
	CardStateLocked  CardState = "locked"
)

func (s *CardState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = CardState(v)
	return err
}

type Amount struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type CardSpendingLimits struct {
	Single  *Amount `json:"single,omitempty"`
	Day     *Amount `json:"day,omitempty"`
	Week    *Amount `json:"week,omitempty"`
	Month   *Amount `json:"month,omitempty"`
	Quarter *Amount `json:"quarter,omitempty"`
	Year    *Amount `json:"year,omitempty"`
	AllTime *Amount `json:"all_time,omitempty"`
}

type Card struct {
	ID             string              `json:"id"`
	LastDigits     string              `json:"last_digits"`
	Expiry         string              `json:"expiry"`
	State          CardState           `json:"state"`
	Label          *string             `json:"label,omitempty"`
	Virtual        bool                `json:"virtual"`
	Product        *CardProduct        `json:"product,omitempty"`
	Accounts       []string            `json:"accounts"`
	Categories     []string            `json:"categories,omitempty"`
	SpendProgram   *CardSpendProgram   `json:"spend_program,omitempty"`
	SpendingLimits *CardSpendingLimits `json:"spending_limits,omitempty"`
	HolderID       *string             `json:"holder_id,omitempty"`
	CreatedAt      string              `json:"created_at"`
	UpdatedAt      string              `json:"updated_at"`
}

type CardProduct struct {
	Code string `json:"code"`
}

type CardSpendProgram struct {
	Label string `json:"label"`
}

// ListCards is only available in production.
func (c *Client) ListCards(ctx context.Context) ([]Card, error) {
	if err := c.env.Require(api.CapabilityCards); err != nil {
		return nil, err
	}
	return api.Request[[]Card](ctx, c, api.Get(), c.uri("1.0", "/cards"))
}

func (c *Client) GetCard(ctx context.Context, cardID string) (*Card, error) {
	if err := c.env.Require(api.CapabilityCards); err != nil {
		return nil, err
	}
	card, err := api.Request[Card](ctx, c, api.Get(), c.uri("1.0", "/cards/"+url.PathEscape(cardID)))
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) FreezeCard(ctx context.Context, cardID string) error {
	if err := c.env.Require(api.CapabilityCards); err != nil {
		return err
	}
	return c.Do(ctx, api.Post(nil), c.uri("1.0", "/cards/"+url.PathEscape(cardID)+"/freeze"), nil)
}

func (c *Client) UnfreezeCard(ctx context.Context, cardID string) error {
	if err := c.env.Require(api.CapabilityCards); err != nil {
		return err
	}
	return c.Do(ctx, api.Post(nil), c.uri("1.0", "/cards/"+url.PathEscape(cardID)+"/unfreeze"), nil)
}
