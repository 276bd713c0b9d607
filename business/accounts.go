package business

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type AccountState string

const (
	AccountStateActive   AccountState = "active"
	AccountStateInactive AccountState = "inactive"
)

func (s *AccountState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = AccountState(v)
	return err
}

type Account struct {
	ID        string       `json:"id"`
	Name      *string      `json:"name,omitempty"`
	Balance   float64      `json:"balance"`
	Currency  string       `json:"currency"`
	State     AccountState `json:"state"`
	Public    bool         `json:"public"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

// DisplayName returns the account name, falling back to the ID.
func (a Account) DisplayName() string {
	if a.Name != nil && *a.Name != "" {
		return *a.Name
	}
	return a.ID
}

type AccountEstimatedTime struct {
	Unit string `json:"unit"`
	Min  *int   `json:"min,omitempty"`
	Max  *int   `json:"max,omitempty"`
}

type Address struct {
	StreetLine1 *string `json:"street_line1,omitempty"`
	StreetLine2 *string `json:"street_line2,omitempty"`
	Region      *string `json:"region,omitempty"`
	City        *string `json:"city,omitempty"`
	Country     string  `json:"country"`
	Postcode    string  `json:"postcode"`
}

type BankDetails struct {
	IBAN               *string              `json:"iban,omitempty"`
	BIC                *string              `json:"bic,omitempty"`
	AccountNo          *string              `json:"account_no,omitempty"`
	SortCode           *string              `json:"sort_code,omitempty"`
	RoutingNumber      *string              `json:"routing_number,omitempty"`
	Beneficiary        string               `json:"beneficiary"`
	BeneficiaryAddress Address              `json:"beneficiary_address"`
	BankCountry        *string              `json:"bank_country,omitempty"`
	Pooled             *bool                `json:"pooled,omitempty"`
	UniqueReference    *string              `json:"unique_reference,omitempty"`
	Schemes            []string             `json:"schemes"`
	EstimatedTime      AccountEstimatedTime `json:"estimated_time"`
}

// ListAccounts returns every account of the business.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	return api.Request[[]Account](ctx, c, api.Get(), c.uri("1.0", "/accounts"))
}

func (c *Client) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	account, err := api.Request[Account](ctx, c, api.Get(), c.uri("1.0", "/accounts/"+url.PathEscape(accountID)))
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetBankDetails returns the first set of bank details of an account.
func (c *Client) GetBankDetails(ctx context.Context, accountID string) (*BankDetails, error) {
	details, err := api.Request[[]BankDetails](ctx, c, api.Get(), c.uri("1.0", "/accounts/"+url.PathEscape(accountID)+"/bank-details"))
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, api.NewClientError(api.RequestError, "no such account present", nil)
	}
	return &details[0], nil
}
