package business

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type TransactionType string

const (
	TransactionTypeATM            TransactionType = "atm"
	TransactionTypeCardPayment    TransactionType = "card_payment"
	TransactionTypeCardRefund     TransactionType = "card_refund"
	TransactionTypeCardChargeback TransactionType = "card_chargeback"
	TransactionTypeCardCredit     TransactionType = "card_credit"
	TransactionTypeExchange       TransactionType = "exchange"
	TransactionTypeTransfer       TransactionType = "transfer"
	TransactionTypeLoan           TransactionType = "loan"
	TransactionTypeFee            TransactionType = "fee"
	TransactionTypeRefund         TransactionType = "refund"
	TransactionTypeTopup          TransactionType = "topup"
	TransactionTypeTopupReturn    TransactionType = "topup_return"
	TransactionTypeTax            TransactionType = "tax"
	TransactionTypeTaxRefund      TransactionType = "tax_refund"
)

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*t = TransactionType(v)
	return err
}

type TransactionMerchant struct {
	Name         *string `json:"name,omitempty"`
	City         *string `json:"city,omitempty"`
	CategoryCode *string `json:"category_code,omitempty"`
	Country      *string `json:"country,omitempty"`
}

type TransactionCounterparty struct {
	AccountID   *string `json:"account_id,omitempty"`
	AccountType string  `json:"account_type"`
	ID          *string `json:"id,omitempty"`
}

type TransactionLeg struct {
	LegID        string                   `json:"leg_id"`
	Amount       float64                  `json:"amount"`
	Fee          *float64                 `json:"fee,omitempty"`
	Currency     string                   `json:"currency"`
	BillAmount   *float64                 `json:"bill_amount,omitempty"`
	BillCurrency *string                  `json:"bill_currency,omitempty"`
	AccountID    string                   `json:"account_id"`
	Counterparty *TransactionCounterparty `json:"counterparty,omitempty"`
	Description  *string                  `json:"description,omitempty"`
	Balance      *float64                 `json:"balance,omitempty"`
}

type TransactionCard struct {
	ID         string  `json:"id"`
	CardNumber string  `json:"card_number"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

type Transaction struct {
	ID                   string               `json:"id"`
	Type                 TransactionType      `json:"type"`
	RequestID            *string              `json:"request_id,omitempty"`
	State                TransferState        `json:"state"`
	ReasonCode           *string              `json:"reason_code,omitempty"`
	CreatedAt            string               `json:"created_at"`
	UpdatedAt            string               `json:"updated_at"`
	CompletedAt          *string              `json:"completed_at,omitempty"`
	ScheduledFor         *string              `json:"scheduled_for,omitempty"`
	RelatedTransactionID *string              `json:"related_transaction_id,omitempty"`
	Merchant             *TransactionMerchant `json:"merchant,omitempty"`
	Reference            *string              `json:"reference,omitempty"`
	Legs                 []TransactionLeg     `json:"legs"`
	Card                 *TransactionCard     `json:"card,omitempty"`
}

type TransactionListParams struct {
	From    *string
	To      *string
	Account *string
	Count   *int
	Type    *TransactionType
}

func (p TransactionListParams) Query() string {
	q := &api.Query{}
	q.AddString("from", p.From)
	q.AddString("to", p.To)
	q.AddString("account", p.Account)
	q.AddInt("count", p.Count)
	if p.Type != nil {
		q.Add("type", string(*p.Type))
	}
	return q.Encode()
}

func (c *Client) ListTransactions(ctx context.Context, params TransactionListParams) ([]Transaction, error) {
	return api.Request[[]Transaction](ctx, c, api.Get(), c.uri("1.0", "/transactions"+params.Query()))
}

// GetTransaction looks a transaction up by its ID.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	return c.getTransaction(ctx, "/transaction/"+url.PathEscape(transactionID))
}

// GetTransactionByRequestID looks a transaction up by the request ID it was created with.
func (c *Client) GetTransactionByRequestID(ctx context.Context, requestID string) (*Transaction, error) {
	return c.getTransaction(ctx, "/transaction/"+url.PathEscape(requestID)+"?id_type=request_id")
}

func (c *Client) getTransaction(ctx context.Context, path string) (*Transaction, error) {
	txn, err := api.Request[Transaction](ctx, c, api.Get(), c.uri("1.0", path))
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
