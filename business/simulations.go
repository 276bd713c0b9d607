package business

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

// TransferStateAction is the state transition to simulate on a sandbox transfer.
type TransferStateAction string

const (
	TransferStateActionComplete TransferStateAction = "complete"
	TransferStateActionRevert   TransferStateAction = "revert"
	TransferStateActionDecline  TransferStateAction = "decline"
	TransferStateActionFail     TransferStateAction = "fail"
)

type TopUpState string

const (
	TopUpStatePending   TopUpState = "pending"
	TopUpStateCompleted TopUpState = "completed"
	TopUpStateReverted  TopUpState = "reverted"
	TopUpStateFailed    TopUpState = "failed"
)

func (s *TopUpState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = TopUpState(v)
	return err
}

type TopUpRequest struct {
	AccountID string      `json:"account_id"`
	Amount    float64     `json:"amount"`
	Currency  string      `json:"currency"`
	Reference *string     `json:"reference,omitempty"`
	State     *TopUpState `json:"state,omitempty"`
}

type TopUp struct {
	ID          string     `json:"id"`
	State       TopUpState `json:"state"`
	CreatedAt   string     `json:"created_at"`
	CompletedAt *string    `json:"completed_at,omitempty"`
}

// SimulateTransferStateUpdate is only available in the sandbox.
func (c *Client) SimulateTransferStateUpdate(ctx context.Context, transferID string, action TransferStateAction) (*Transfer, error) {
	if err := c.env.Require(api.CapabilitySimulations); err != nil {
		return nil, err
	}
	transfer, err := api.Request[Transfer](ctx, c, api.Post(nil),
		c.uri("1.0", "/sandbox/transactions/"+url.PathEscape(transferID)+"/"+string(action)))
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// SimulateAccountTopUp is only available in the sandbox.
func (c *Client) SimulateAccountTopUp(ctx context.Context, req TopUpRequest) (*TopUp, error) {
	if err := c.env.Require(api.CapabilitySimulations); err != nil {
		return nil, err
	}
	topUp, err := api.Request[TopUp](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", "/sandbox/topup"))
	if err != nil {
		return nil, err
	}
	return &topUp, nil
}
