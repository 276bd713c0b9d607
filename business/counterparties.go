package business

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type IndividualName struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type CounterpartyAccount struct {
	ID            string  `json:"id"`
	Name          *string `json:"name,omitempty"`
	BankCountry   *string `json:"bank_country,omitempty"`
	Currency      string  `json:"currency"`
	Type          string  `json:"type"`
	AccountNo     *string `json:"account_no,omitempty"`
	IBAN          *string `json:"iban,omitempty"`
	SortCode      *string `json:"sort_code,omitempty"`
	RoutingNumber *string `json:"routing_number,omitempty"`
	BIC           *string `json:"bic,omitempty"`
}

type CounterpartyCard struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LastDigits string `json:"last_digits"`
	Scheme     string `json:"scheme"`
	Country    string `json:"country"`
	Currency   string `json:"currency"`
}

type Counterparty struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Revtag      *string               `json:"revtag,omitempty"`
	ProfileType *string               `json:"profile_type,omitempty"`
	Country     *string               `json:"country,omitempty"`
	State       string                `json:"state"`
	CreatedAt   string                `json:"created_at"`
	UpdatedAt   string                `json:"updated_at"`
	Accounts    []CounterpartyAccount `json:"accounts,omitempty"`
	Cards       []CounterpartyCard    `json:"cards,omitempty"`
}

type CounterpartyRequest struct {
	CompanyName    *string         `json:"company_name,omitempty"`
	ProfileType    *string         `json:"profile_type,omitempty"`
	Name           *string         `json:"name,omitempty"`
	IndividualName *IndividualName `json:"individual_name,omitempty"`
	BankCountry    *string         `json:"bank_country,omitempty"`
	Currency       *string         `json:"currency,omitempty"`
	Revtag         *string         `json:"revtag,omitempty"`
	AccountNo      *string         `json:"account_no,omitempty"`
	IBAN           *string         `json:"iban,omitempty"`
	SortCode       *string         `json:"sort_code,omitempty"`
	RoutingNumber  *string         `json:"routing_number,omitempty"`
	BIC            *string         `json:"bic,omitempty"`
	Address        *Address        `json:"address,omitempty"`
}

type CounterpartyListParams struct {
	Name          *string
	AccountNo     *string
	SortCode      *string
	IBAN          *string
	BIC           *string
	CreatedBefore *string
	Limit         *int
}

func (p CounterpartyListParams) Query() string {
	q := &api.Query{}
	q.AddString("name", p.Name)
	q.AddString("account_no", p.AccountNo)
	q.AddString("sort_code", p.SortCode)
	q.AddString("iban", p.IBAN)
	q.AddString("bic", p.BIC)
	q.AddString("created_before", p.CreatedBefore)
	q.AddInt("limit", p.Limit)
	return q.Encode()
}

type AccountNameRequest struct {
	AccountNo      string          `json:"account_no"`
	SortCode       string          `json:"sort_code"`
	CompanyName    *string         `json:"company_name,omitempty"`
	IndividualName *IndividualName `json:"individual_name,omitempty"`
}

type AccountNameReason struct {
	Type *string `json:"type,omitempty"`
	Code *string `json:"code,omitempty"`
}

type AccountNameValidation struct {
	ResultCode     string             `json:"result_code"`
	Reason         *AccountNameReason `json:"reason,omitempty"`
	CompanyName    *string            `json:"company_name,omitempty"`
	IndividualName *IndividualName    `json:"individual_name,omitempty"`
}

func counterpartyPath(id string) string { return "/counterparty/" + url.PathEscape(id) }

func (c *Client) ListCounterparties(ctx context.Context, params CounterpartyListParams) ([]Counterparty, error) {
	return api.Request[[]Counterparty](ctx, c, api.Get(), c.uri("1.0", "/counterparties"+params.Query()))
}

func (c *Client) GetCounterparty(ctx context.Context, counterpartyID string) (*Counterparty, error) {
	cp, err := api.Request[Counterparty](ctx, c, api.Get(), c.uri("1.0", counterpartyPath(counterpartyID)))
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (c *Client) CreateCounterparty(ctx context.Context, req CounterpartyRequest) (*Counterparty, error) {
	cp, err := api.Request[Counterparty](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", "/counterparty"))
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (c *Client) DeleteCounterparty(ctx context.Context, counterpartyID string) error {
	return c.Do(ctx, api.Delete(), c.uri("1.0", counterpartyPath(counterpartyID)), nil)
}

// ValidateAccountName runs a confirmation of payee check for UK accounts.
func (c *Client) ValidateAccountName(ctx context.Context, req AccountNameRequest) (*AccountNameValidation, error) {
	v, err := api.Request[AccountNameValidation](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", "/account-name-validation"))
	if err != nil {
		return nil, err
	}
	return &v, nil
}
