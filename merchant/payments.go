package merchant

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type PaymentState string

const (
	PaymentStatePending                 PaymentState = "pending"
	PaymentStateAuthenticationChallenge PaymentState = "authentication_challenge"
	PaymentStateAuthenticationVerified  PaymentState = "authentication_verified"
	PaymentStateAuthorisationStarted    PaymentState = "authorisation_started"
	PaymentStateAuthorisationPassed     PaymentState = "authorisation_passed"
	PaymentStateAuthorised              PaymentState = "authorised"
	PaymentStateCaptureStarted          PaymentState = "capture_started"
	PaymentStateCaptured                PaymentState = "captured"
	PaymentStateRefundValidated         PaymentState = "refund_validated"
	PaymentStateCancellationStarted     PaymentState = "cancellation_started"
	PaymentStateDeclining               PaymentState = "declining"
	PaymentStateCompleting              PaymentState = "completing"
	PaymentStateCancelling              PaymentState = "cancelling"
	PaymentStateFailing                 PaymentState = "failing"
	PaymentStateCompleted               PaymentState = "completed"
	PaymentStateDeclined                PaymentState = "declined"
	PaymentStateSoftDeclined            PaymentState = "soft_declined"
	PaymentStateCancelled               PaymentState = "cancelled"
	PaymentStateFailed                  PaymentState = "failed"
)

func (s *PaymentState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = PaymentState(v)
	return err
}

type PaymentMethodType string

const (
	PaymentMethodApplePay          PaymentMethodType = "apple_pay"
	PaymentMethodAppleTapToPay     PaymentMethodType = "apple_tap_to_pay"
	PaymentMethodCard              PaymentMethodType = "card"
	PaymentMethodGooglePay         PaymentMethodType = "google_pay"
	PaymentMethodRevolutPay        PaymentMethodType = "revolut_pay"
	PaymentMethodRevolutPayCard    PaymentMethodType = "revolut_pay_card"
	PaymentMethodRevolutPayAccount PaymentMethodType = "revolut_pay_account"
)

func (t *PaymentMethodType) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*t = PaymentMethodType(v)
	return err
}

type ThreeDSState string

const (
	ThreeDSStateVerified  ThreeDSState = "verified"
	ThreeDSStateFailed    ThreeDSState = "failed"
	ThreeDSStateChallenge ThreeDSState = "challenge"
)

func (s *ThreeDSState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = ThreeDSState(v)
	return err
}

type ThreeDS struct {
	ECI     *string       `json:"eci,omitempty"`
	State   *ThreeDSState `json:"state,omitempty"`
	Version *string       `json:"version,omitempty"`
}

type Checks struct {
	ThreeDS         *ThreeDS `json:"three_ds,omitempty"`
	CVVVerification *string  `json:"cvv_verification,omitempty"`
	Address         *string  `json:"address,omitempty"`
	Postcode        *string  `json:"postcode,omitempty"`
	Cardholder      *string  `json:"cardholder,omitempty"`
}

// PaymentMethod describes how a payment was made. Card fields are empty for
// Revolut Pay account payments.
type PaymentMethod struct {
	Type            PaymentMethodType `json:"type"`
	ID              *string           `json:"id,omitempty"`
	CardBrand       *string           `json:"card_brand,omitempty"`
	Funding         *string           `json:"funding,omitempty"`
	CardCountryCode *string           `json:"card_country_code,omitempty"`
	CardBIN         *string           `json:"card_bin,omitempty"`
	CardLastFour    *string           `json:"card_last_four,omitempty"`
	CardExpiry      *string           `json:"card_expiry,omitempty"`
	CardholderName  *string           `json:"cardholder_name,omitempty"`
	Checks          *Checks           `json:"checks,omitempty"`
	Fingerprint     *string           `json:"fingerprint,omitempty"`
}

type AuthenticationChallenge struct {
	Type   string `json:"type"`
	ACSURL string `json:"acs_url"`
}

type BillingAddress struct {
	StreetLine1 *string `json:"street_line_1,omitempty"`
	StreetLine2 *string `json:"street_line_2,omitempty"`
	Region      *string `json:"region,omitempty"`
	City        *string `json:"city,omitempty"`
	CountryCode string  `json:"country_code"`
	Postcode    string  `json:"postcode"`
}

type Fee struct {
	Type     *string `json:"type,omitempty"`
	Amount   *int64  `json:"amount,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

type Payment struct {
	ID                      string                   `json:"id"`
	State                   PaymentState             `json:"state"`
	DeclineReason           *string                  `json:"decline_reason,omitempty"`
	BankMessage             *string                  `json:"bank_message,omitempty"`
	CreatedAt               string                   `json:"created_at"`
	UpdatedAt               string                   `json:"updated_at"`
	Token                   *string                  `json:"token,omitempty"`
	Amount                  int64                    `json:"amount"`
	Currency                *string                  `json:"currency,omitempty"`
	SettledAmount           *int64                   `json:"settled_amount,omitempty"`
	SettledCurrency         *string                  `json:"settled_currency,omitempty"`
	PaymentMethod           *PaymentMethod           `json:"payment_method,omitempty"`
	AuthenticationChallenge *AuthenticationChallenge `json:"authentication_challenge,omitempty"`
	BillingAddress          *BillingAddress          `json:"billing_address,omitempty"`
	RiskLevel               *string                  `json:"risk_level,omitempty"`
	Fees                    []Fee                    `json:"fees,omitempty"`
	OrderID                 *string                  `json:"order_id,omitempty"`
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	return request[Payment](ctx, c, api.Get(), c.unversioned("/payments/"+url.PathEscape(paymentID)))
}
