package merchant

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type CustomerRequest struct {
	FullName     *string `json:"full_name,omitempty"`
	BusinessName *string `json:"business_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
}

type Customer struct {
	ID           string  `json:"id"`
	FullName     *string `json:"full_name,omitempty"`
	BusinessName *string `json:"business_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        string  `json:"email"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type CustomerBillingAddress struct {
	StreetLine1 *string `json:"street_line_1,omitempty"`
	StreetLine2 *string `json:"street_line_2,omitempty"`
	PostCode    *string `json:"post_code,omitempty"`
	City        *string `json:"city,omitempty"`
	Region      *string `json:"region,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`
}

type PaymentMethodDetails struct {
	BIN            *string                 `json:"bin,omitempty"`
	Last4          *string                 `json:"last4,omitempty"`
	ExpiryMonth    *int                    `json:"expiry_month,omitempty"`
	ExpiryYear     *int                    `json:"expiry_year,omitempty"`
	CardholderName *string                 `json:"cardholder_name,omitempty"`
	BillingAddress *CustomerBillingAddress `json:"billing_address,omitempty"`
	Brand          *string                 `json:"brand,omitempty"`
	Funding        *string                 `json:"funding,omitempty"`
	Issuer         *string                 `json:"issuer,omitempty"`
	IssuerCountry  *string                 `json:"issuer_country,omitempty"`
	CreatedAt      *string                 `json:"created_at,omitempty"`
}

// SavedPaymentMethodDetails is a payment method saved for a customer.
type SavedPaymentMethodDetails struct {
	ID            string                `json:"id"`
	Type          PaymentMethodType     `json:"type"`
	SavedFor      *string               `json:"saved_for,omitempty"`
	MethodDetails *PaymentMethodDetails `json:"method_details,omitempty"`
}

// PaymentMethodUpdate restricts who may initiate payments with a saved
// method. The API only accepts "customer".
type PaymentMethodUpdate struct {
	SavedFor string `json:"saved_for"`
}

func customerPath(id string) string { return "/customers/" + url.PathEscape(id) }

func paymentMethodPath(customerID, methodID string) string {
	return customerPath(customerID) + "/payment-methods/" + url.PathEscape(methodID)
}

func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	return request[Customer](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", "/customers"))
}

func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	return api.Request[[]Customer](ctx, c, api.Get(), c.uri("1.0", "/customers"))
}

func (c *Client) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	return request[Customer](ctx, c, api.Get(), c.uri("1.0", customerPath(customerID)))
}

func (c *Client) UpdateCustomer(ctx context.Context, customerID string, req CustomerRequest) (*Customer, error) {
	return request[Customer](ctx, c, api.Patch(api.JSON(req)), c.uri("1.0", customerPath(customerID)))
}

func (c *Client) DeleteCustomer(ctx context.Context, customerID string) error {
	return c.Do(ctx, api.Delete(), c.uri("1.0", customerPath(customerID)), nil)
}

func (c *Client) ListPaymentMethods(ctx context.Context, customerID string) ([]SavedPaymentMethodDetails, error) {
	return api.Request[[]SavedPaymentMethodDetails](ctx, c, api.Get(), c.uri("1.0", customerPath(customerID)+"/payment-methods"))
}

func (c *Client) GetPaymentMethod(ctx context.Context, customerID, methodID string) (*SavedPaymentMethodDetails, error) {
	return request[SavedPaymentMethodDetails](ctx, c, api.Get(), c.uri("1.0", paymentMethodPath(customerID, methodID)))
}

func (c *Client) UpdatePaymentMethod(ctx context.Context, customerID, methodID string, req PaymentMethodUpdate) (*SavedPaymentMethodDetails, error) {
	return request[SavedPaymentMethodDetails](ctx, c, api.Patch(api.JSON(req)), c.uri("1.0", paymentMethodPath(customerID, methodID)))
}

func (c *Client) DeletePaymentMethod(ctx context.Context, customerID, methodID string) error {
	return c.Do(ctx, api.Delete(), c.uri("1.0", paymentMethodPath(customerID, methodID)), nil)
}
