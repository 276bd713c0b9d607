package business

import (
	"context"
	"strconv"

	"github.com/revolut-cli/revolut-cli/api"
)

type ExchangeState string

const (
	ExchangeStateCreated   ExchangeState = "created"
	ExchangeStatePending   ExchangeState = "pending"
	ExchangeStateCompleted ExchangeState = "completed"
	ExchangeStateDeclined  ExchangeState = "declined"
	ExchangeStateFailed    ExchangeState = "failed"
	ExchangeStateReverted  ExchangeState = "reverted"
)

func (s *ExchangeState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = ExchangeState(v)
	return err
}

type AmountWithCurrency struct {
	Amount   *float64 `json:"amount,omitempty"`
	Currency *string  `json:"currency,omitempty"`
}

type ExchangeRate struct {
	From     AmountWithCurrency `json:"from"`
	To       AmountWithCurrency `json:"to"`
	Rate     float64            `json:"rate"`
	Fee      AmountWithCurrency `json:"fee"`
	RateDate string             `json:"rate_date"`
}

// ExchangeRateParams selects a currency pair and optional amount.
type ExchangeRateParams struct {
	From   string
	To     string
	Amount *float64
}

func (p ExchangeRateParams) Query() string {
	q := &api.Query{}
	q.Add("from", p.From).Add("to", p.To)
	if p.Amount != nil {
		q.Add("amount", strconv.FormatFloat(*p.Amount, 'f', -1, 64))
	}
	return q.Encode()
}

type ExchangeFromTo struct {
	AccountID string   `json:"account_id"`
	Currency  string   `json:"currency"`
	Amount    *float64 `json:"amount,omitempty"`
}

type ExchangeRequest struct {
	From               ExchangeFromTo `json:"from"`
	To                 ExchangeFromTo `json:"to"`
	Reference          *string        `json:"reference,omitempty"`
	RequestID          string         `json:"request_id"`
	ExchangeReasonCode *string        `json:"exchange_reason_code,omitempty"`
}

type Exchange struct {
	ID          *string        `json:"id,omitempty"`
	Type        *string        `json:"type,omitempty"`
	ReasonCode  *string        `json:"reason_code,omitempty"`
	CreatedAt   *string        `json:"created_at,omitempty"`
	CompletedAt *string        `json:"completed_at,omitempty"`
	State       *ExchangeState `json:"state,omitempty"`
}

// GetExchangeRate returns the current rate for a currency pair.
func (c *Client) GetExchangeRate(ctx context.Context, params ExchangeRateParams) (*ExchangeRate, error) {
	rate, err := api.Request[ExchangeRate](ctx, c, api.Get(), c.uri("1.0", "/rate"+params.Query()))
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (c *Client) Exchange(ctx context.Context, req ExchangeRequest) (*Exchange, error) {
	exchange, err := api.Request[Exchange](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", "/exchange"))
	if err != nil {
		return nil, err
	}
	return &exchange, nil
}
