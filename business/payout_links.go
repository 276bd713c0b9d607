package business

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type PayoutLinkState string

const (
	PayoutLinkStateCreated    PayoutLinkState = "created"
	PayoutLinkStateFailed     PayoutLinkState = "failed"
	PayoutLinkStateAwaiting   PayoutLinkState = "awaiting"
	PayoutLinkStateActive     PayoutLinkState = "active"
	PayoutLinkStateExpired    PayoutLinkState = "expired"
	PayoutLinkStateCancelled  PayoutLinkState = "cancelled"
	PayoutLinkStateProcessing PayoutLinkState = "processing"
	PayoutLinkStateProcessed  PayoutLinkState = "processed"
)

func (s *PayoutLinkState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = PayoutLinkState(v)
	return err
}

type PayoutMethod string

const (
	PayoutMethodRevolut     PayoutMethod = "revolut"
	PayoutMethodBankAccount PayoutMethod = "bank_account"
	PayoutMethodCard        PayoutMethod = "card"
)

func (m *PayoutMethod) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*m = PayoutMethod(v)
	return err
}

type PayoutLink struct {
	ID                 string          `json:"id"`
	State              PayoutLinkState `json:"state"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
	CounterpartyName   string          `json:"counterparty_name"`
	SaveCounterparty   bool            `json:"save_counterparty"`
	RequestID          string          `json:"request_id"`
	ExpiryDate         *string         `json:"expiry_date,omitempty"`
	PayoutMethods      []PayoutMethod  `json:"payout_methods"`
	AccountID          string          `json:"account_id"`
	Amount             float64         `json:"amount"`
	Currency           string          `json:"currency"`
	URL                *string         `json:"url,omitempty"`
	Reference          string          `json:"reference"`
	TransferReasonCode *string         `json:"transfer_reason_code,omitempty"`
	CounterpartyID     *string         `json:"counterparty_id,omitempty"`
	TransactionID      *string         `json:"transaction_id,omitempty"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
}

type PayoutLinkRequest struct {
	CounterpartyName   string         `json:"counterparty_name"`
	SaveCounterparty   *bool          `json:"save_counterparty,omitempty"`
	RequestID          string         `json:"request_id"`
	AccountID          string         `json:"account_id"`
	Amount             float64        `json:"amount"`
	Currency           string         `json:"currency"`
	Reference          string         `json:"reference"`
	PayoutMethods      []PayoutMethod `json:"payout_methods,omitempty"`
	ExpiryPeriod       *string        `json:"expiry_period,omitempty"`
	TransferReasonCode *string        `json:"transfer_reason_code,omitempty"`
}

// PayoutLinkListParams filters ListPayoutLinks. Nil fields are omitted.
type PayoutLinkListParams struct {
	State         []PayoutLinkState
	CreatedBefore *string
	Limit         *int
}

// Query renders the params as a query string, states first.
func (p PayoutLinkListParams) Query() string {
	q := &api.Query{}
	for _, s := range p.State {
		q.Add("state", string(s))
	}
	q.AddString("created_before", p.CreatedBefore)
	q.AddInt("limit", p.Limit)
	return q.Encode()
}

func (c *Client) ListPayoutLinks(ctx context.Context, params PayoutLinkListParams) ([]PayoutLink, error) {
	return api.Request[[]PayoutLink](ctx, c, api.Get(), c.uri("1.0", "/payout-links"+params.Query()))
}

func (c *Client) GetPayoutLink(ctx context.Context, payoutLinkID string) (*PayoutLink, error) {
	link, err := api.Request[PayoutLink](ctx, c, api.Get(), c.uri("1.0", "/payout-links/"+url.PathEscape(payoutLinkID)))
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *Client) CreatePayoutLink(ctx context.Context, req PayoutLinkRequest) (*PayoutLink, error) {
	link, err := api.Request[PayoutLink](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", "/payout-links"))
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// CancelPayoutLink posts an empty body.
func (c *Client) CancelPayoutLink(ctx context.Context, payoutLinkID string) (*PayoutLink, error) {
	link, err := api.Request[PayoutLink](ctx, c, api.Post(nil), c.uri("1.0", "/payout-links/"+url.PathEscape(payoutLinkID)+"/cancel"))
	if err != nil {
		return nil, err
	}
	return &link, nil
}
