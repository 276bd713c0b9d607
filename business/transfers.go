package business

import (
	"context"

	"github.com/revolut-cli/revolut-cli/api"
)

type TransferState string

const (
	TransferStateCreated   TransferState = "created"
	TransferStatePending   TransferState = "pending"
	TransferStateCompleted TransferState = "completed"
	TransferStateDeclined  TransferState = "declined"
	TransferStateFailed    TransferState = "failed"
	TransferStateReverted  TransferState = "reverted"
)

func (s *TransferState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = TransferState(v)
	return err
}

type TransferReason struct {
	Country     string `json:"country"`
	Currency    string `json:"currency"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ExchangeReason struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TransferRequest moves money between two accounts of the business.
type TransferRequest struct {
	RequestID       string  `json:"request_id"`
	SourceAccountID string  `json:"source_account_id"`
	TargetAccountID string  `json:"target_account_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Reference       *string `json:"reference,omitempty"`
}

type TransferReceiver struct {
	CounterpartyID string  `json:"counterparty_id"`
	AccountID      *string `json:"account_id,omitempty"`
	CardID         *string `json:"card_id,omitempty"`
}

// PayRequest pays a counterparty.
type PayRequest struct {
	RequestID          string           `json:"request_id"`
	AccountID          string           `json:"account_id"`
	Receiver           TransferReceiver `json:"receiver"`
	Amount             float64          `json:"amount"`
	Currency           *string          `json:"currency,omitempty"`
	Reference          *string          `json:"reference,omitempty"`
	ChargeBearer       *string          `json:"charge_bearer,omitempty"`
	TransferReasonCode *string          `json:"transfer_reason_code,omitempty"`
	ExchangeReasonCode *string          `json:"exchange_reason_code,omitempty"`
}

type Transfer struct {
	ID          string        `json:"id"`
	State       TransferState `json:"state"`
	CreatedAt   string        `json:"created_at"`
	CompletedAt *string       `json:"completed_at,omitempty"`
}

func (c *Client) ListTransferReasons(ctx context.Context) ([]TransferReason, error) {
	return api.Request[[]TransferReason](ctx, c, api.Get(), c.uri("1.0", "/transfer-reasons"))
}

func (c *Client) ListExchangeReasons(ctx context.Context) ([]ExchangeReason, error) {
	return api.Request[[]ExchangeReason](ctx, c, api.Get(), c.uri("1.0", "/exchange-reasons"))
}

func (c *Client) CreateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	transfer, err := api.Request[Transfer](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", "/transfer"))
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (c *Client) Pay(ctx context.Context, req PayRequest) (*Transfer, error) {
	transfer, err := api.Request[Transfer](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", "/pay"))
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}
