package business

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type ExpenseAmount struct {
	Amount   *float64 `json:"amount,omitempty"`
	Currency *string  `json:"currency,omitempty"`
}

type ExpenseCategory struct {
	Name string  `json:"name"`
	Code *string `json:"code,omitempty"`
}

type TaxRate struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

type ExpenseSplit struct {
	Amount   ExpenseAmount   `json:"amount"`
	Category ExpenseCategory `json:"category"`
	TaxRate  TaxRate         `json:"tax_rate"`
}

type Expense struct {
	ID              string              `json:"id"`
	State           string              `json:"state"`
	TransactionType string              `json:"transaction_type"`
	Description     *string             `json:"description,omitempty"`
	SubmittedAt     *string             `json:"submitted_at,omitempty"`
	CompletedAt     *string             `json:"completed_at,omitempty"`
	Payer           *string             `json:"payer,omitempty"`
	Merchant        *string             `json:"merchant,omitempty"`
	TransactionID   *string             `json:"transaction_id,omitempty"`
	ExpenseDate     string              `json:"expense_date"`
	Labels          map[string][]string `json:"labels"`
	Splits          []ExpenseSplit      `json:"splits"`
	ReceiptIDs      []string            `json:"receipt_ids"`
	SpentAmount     Amount              `json:"spent_amount"`
}

// ListExpenses is only available in production.
func (c *Client) ListExpenses(ctx context.Context) ([]Expense, error) {
	if err := c.env.Require(api.CapabilityExpenses); err != nil {
		return nil, err
	}
	return api.Request[[]Expense](ctx, c, api.Get(), c.uri("1.0", "/expenses"))
}

func (c *Client) GetExpense(ctx context.Context, expenseID string) (*Expense, error) {
	if err := c.env.Require(api.CapabilityExpenses); err != nil {
		return nil, err
	}
	expense, err := api.Request[Expense](ctx, c, api.Get(), c.uri("1.0", "/expenses/"+url.PathEscape(expenseID)))
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// GetExpenseReceipt downloads the receipt file as-is.
func (c *Client) GetExpenseReceipt(ctx context.Context, expenseID, receiptID string) ([]byte, error) {
	if err := c.env.Require(api.CapabilityExpenses); err != nil {
		return nil, err
	}
	return api.RequestRaw(ctx, c, api.Get(),
		c.uri("1.0", "/expenses/"+url.PathEscape(expenseID)+"/receipts/"+url.PathEscape(receiptID)+"/content"))
}
