package merchant

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type OrderState string

const (
	OrderStatePending    OrderState = "pending"
	OrderStateProcessing OrderState = "processing"
	OrderStateAuthorised OrderState = "authorised"
	OrderStateCompleted  OrderState = "completed"
	OrderStateCancelled  OrderState = "cancelled"
	OrderStateFailed     OrderState = "failed"
)

func (s *OrderState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = OrderState(v)
	return err
}

type OrderType string

const (
	OrderTypePayment             OrderType = "payment"
	OrderTypePaymentRequest      OrderType = "payment_request"
	OrderTypeRefund              OrderType = "refund"
	OrderTypeChargeback          OrderType = "chargeback"
	OrderTypeChargebackReversal  OrderType = "chargeback_reversal"
	OrderTypeCreditReimbursement OrderType = "credit_reimbursement"
)

func (t *OrderType) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*t = OrderType(v)
	return err
}

type LineItemType string

const (
	LineItemTypePhysical LineItemType = "physical"
	LineItemTypeService  LineItemType = "service"
)

func (t *LineItemType) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*t = LineItemType(v)
	return err
}

// OrderCustomer is the customer embedded in an order.
type OrderCustomer struct {
	ID          *string `json:"id,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
}

type Quantity struct {
	Value float64 `json:"value"`
	Unit  *string `json:"unit,omitempty"`
}

type Discount struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type Tax struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type LineItem struct {
	Name            string       `json:"name"`
	Type            LineItemType `json:"type"`
	Quantity        Quantity     `json:"quantity"`
	UnitPriceAmount int64        `json:"unit_price_amount"`
	TotalAmount     int64        `json:"total_amount"`
	ExternalID      *string      `json:"external_id,omitempty"`
	Discounts       []Discount   `json:"discounts,omitempty"`
	Taxes           []Tax        `json:"taxes,omitempty"`
	ImageURLs       []string     `json:"image_urls,omitempty"`
	Description     *string      `json:"description,omitempty"`
	URL             *string      `json:"url,omitempty"`
}

type Address struct {
	StreetLine1            string  `json:"street_line_1"`
	StreetLine2            *string `json:"street_line_2,omitempty"`
	Region                 *string `json:"region,omitempty"`
	City                   string  `json:"city"`
	CountryCode            string  `json:"country_code"`
	CountrySubdivisionCode *string `json:"country_subdivision_code,omitempty"`
	Postcode               string  `json:"postcode"`
}

type Contact struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

type Shipment struct {
	ShippingCompanyName   string  `json:"shipping_company_name"`
	TrackingNumber        string  `json:"tracking_number"`
	EstimatedDeliveryDate *string `json:"estimated_delivery_date,omitempty"`
	TrackingURL           *string `json:"tracking_url,omitempty"`
}

type Shipping struct {
	Address   *Address   `json:"address,omitempty"`
	Contact   *Contact   `json:"contact,omitempty"`
	Shipments []Shipment `json:"shipments,omitempty"`
}

type Passenger struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type JourneyLeg struct {
	Sequence             string  `json:"sequence"`
	DepartureAirportCode string  `json:"departure_airport_code"`
	ArrivalAirportCode   string  `json:"arrival_airport_code"`
	FlightNumber         *string `json:"flight_number,omitempty"`
	FareBaseCode         *string `json:"fare_base_code,omitempty"`
	TravelDate           string  `json:"travel_date"`
	AirlineName          string  `json:"airline_name"`
	AirlineCode          string  `json:"airline_code"`
}

type CryptoTransaction struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	RecipientWalletID *string `json:"recipient_wallet_id,omitempty"`
	RecipientUserID   *string `json:"recipient_user_id,omitempty"`
}

type EventLocation struct {
	StreetLine1 string  `json:"street_line_1"`
	StreetLine2 *string `json:"street_line_2,omitempty"`
	Region      *string `json:"region,omitempty"`
	City        string  `json:"city"`
	CountryCode string  `json:"country_code"`
	Postcode    string  `json:"postcode"`
}

type Ticket struct {
	ID            string  `json:"id"`
	Transferable  *bool   `json:"transferable,omitempty"`
	Refundability *string `json:"refundability,omitempty"`
}

type Event struct {
	StartDate           *string        `json:"start_date,omitempty"`
	EndDate             *string        `json:"end_date,omitempty"`
	Supplier            *string        `json:"supplier,omitempty"`
	SupplierPaymentDate *string        `json:"supplier_payment_date,omitempty"`
	Name                *string        `json:"name,omitempty"`
	Location            *EventLocation `json:"location,omitempty"`
	Category            string         `json:"category"`
	Market              string         `json:"market"`
	Tickets             []Ticket       `json:"tickets"`
}

type Guest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Subseller struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Website string  `json:"website"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

// IndustryType discriminates IndustryData.
type IndustryType string

const (
	IndustryAirline     IndustryType = "airline"
	IndustryCrypto      IndustryType = "crypto"
	IndustryEvent       IndustryType = "event"
	IndustryLodging     IndustryType = "lodging"
	IndustryMarketplace IndustryType = "marketplace"
)

func (t *IndustryType) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*t = IndustryType(v)
	return err
}

// IndustryData carries sector specific order details. Only the fields of the
// variant named by Type are meaningful.
type IndustryData struct {
	Type IndustryType `json:"type"`

	BookingID *string `json:"booking_id,omitempty"`

	// airline
	FulfillmentDate       *string      `json:"fulfillment_date,omitempty"`
	TicketsPurchase       *bool        `json:"tickets_purchase,omitempty"`
	TicketsType           *string      `json:"tickets_type,omitempty"`
	CRSCode               *string      `json:"crs_code,omitempty"`
	TicketChangeIndicator *string      `json:"ticket_change_indicator,omitempty"`
	Passengers            []Passenger  `json:"passengers,omitempty"`
	JourneyLegs           []JourneyLeg `json:"journey_legs,omitempty"`
	BookingURL            *string      `json:"booking_url,omitempty"`

	// crypto
	Transactions []CryptoTransaction `json:"transactions,omitempty"`
	SubsellerMCC *string             `json:"subseller_mcc,omitempty"`
	SubsellerURL *string             `json:"subseller_url,omitempty"`

	// event
	Events []Event `json:"events,omitempty"`

	// lodging
	CheckInDate         *string        `json:"check_in_date,omitempty"`
	CheckOutDate        *string        `json:"check_out_date,omitempty"`
	SupplierPaymentDate *string        `json:"supplier_payment_date,omitempty"`
	Category            *string        `json:"category,omitempty"`
	BookingType         *string        `json:"booking_type,omitempty"`
	Location            *EventLocation `json:"location,omitempty"`
	Guests              []Guest        `json:"guests,omitempty"`

	Refundability *string `json:"refundability,omitempty"`

	// marketplace
	Subseller *Subseller `json:"subseller,omitempty"`
}

type MerchantOrderData struct {
	URL       *string `json:"url,omitempty"`
	Reference *string `json:"reference,omitempty"`
}

type UpcomingPaymentData struct {
	Date            string `json:"date"`
	PaymentMethodID string `json:"payment_method_id"`
}

// OrderRequest creates or updates an order. Amounts are in minor units.
type OrderRequest struct {
	Amount                    int64                `json:"amount"`
	Currency                  string               `json:"currency"`
	SettlementCurrency        *string              `json:"settlement_currency,omitempty"`
	Description               *string              `json:"description,omitempty"`
	Customer                  *OrderCustomer       `json:"customer,omitempty"`
	EnforceChallenge          *string              `json:"enforce_challenge,omitempty"`
	LineItems                 []LineItem           `json:"line_items,omitempty"`
	Shipping                  *Shipping            `json:"shipping,omitempty"`
	CaptureMode               *string              `json:"capture_mode,omitempty"`
	CancelAuthorisedAfter     *string              `json:"cancel_authorised_after,omitempty"`
	LocationID                *string              `json:"location_id,omitempty"`
	Metadata                  map[string]string    `json:"metadata,omitempty"`
	IndustryData              *IndustryData        `json:"industry_data,omitempty"`
	MerchantOrderData         *MerchantOrderData   `json:"merchant_order_data,omitempty"`
	UpcomingPaymentData       *UpcomingPaymentData `json:"upcoming_payment_data,omitempty"`
	RedirectURL               *string              `json:"redirect_url,omitempty"`
	StatementDescriptorSuffix *string              `json:"statement_descriptor_suffix,omitempty"`
}

type Order struct {
	ID                        string               `json:"id"`
	Token                     *string              `json:"token,omitempty"`
	Type                      *OrderType           `json:"type,omitempty"`
	State                     *OrderState          `json:"state,omitempty"`
	CreatedAt                 *string              `json:"created_at,omitempty"`
	UpdatedAt                 *string              `json:"updated_at,omitempty"`
	Description               *string              `json:"description,omitempty"`
	CaptureMode               *string              `json:"capture_mode,omitempty"`
	CancelAuthorisedAfter     *string              `json:"cancel_authorised_after,omitempty"`
	Amount                    *int64               `json:"amount,omitempty"`
	OutstandingAmount         *int64               `json:"outstanding_amount,omitempty"`
	RefundedAmount            *int64               `json:"refunded_amount,omitempty"`
	Currency                  *string              `json:"currency,omitempty"`
	SettlementCurrency        *string              `json:"settlement_currency,omitempty"`
	Customer                  *OrderCustomer       `json:"customer,omitempty"`
	Payments                  []Payment            `json:"payments,omitempty"`
	LocationID                *string              `json:"location_id,omitempty"`
	Metadata                  map[string]string    `json:"metadata,omitempty"`
	IndustryData              *IndustryData        `json:"industry_data,omitempty"`
	MerchantOrderData         *MerchantOrderData   `json:"merchant_order_data,omitempty"`
	UpcomingPaymentData       *UpcomingPaymentData `json:"upcoming_payment_data,omitempty"`
	CheckoutURL               *string              `json:"checkout_url,omitempty"`
	RedirectURL               *string              `json:"redirect_url,omitempty"`
	Shipping                  *Shipping            `json:"shipping,omitempty"`
	EnforceChallenge          *string              `json:"enforce_challenge,omitempty"`
	LineItems                 []LineItem           `json:"line_items,omitempty"`
	StatementDescriptorSuffix *string              `json:"statement_descriptor_suffix,omitempty"`
}

// OrderListParams filters ListOrders. Nil and empty fields are omitted.
type OrderListParams struct {
	Limit           *int
	CreatedBefore   *string
	FromCreatedDate *string
	ToCreatedDate   *string
	CustomerID      *string
	Email           *string
	State           []OrderState
}

func (p OrderListParams) Query() string {
	q := &api.Query{}
	q.AddInt("limit", p.Limit)
	q.AddString("created_before", p.CreatedBefore)
	q.AddString("from_created_date", p.FromCreatedDate)
	q.AddString("to_created_date", p.ToCreatedDate)
	q.AddString("customer_id", p.CustomerID)
	q.AddString("email", p.Email)
	for _, s := range p.State {
		q.Add("state", string(s))
	}
	return q.Encode()
}

type RefundRequest struct {
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Description *string `json:"description,omitempty"`
}

type SavedPaymentMethodType string

const (
	SavedPaymentMethodCard       SavedPaymentMethodType = "card"
	SavedPaymentMethodRevolutPay SavedPaymentMethodType = "revolut_pay"
)

type SavedPaymentMethodInitiator string

const (
	InitiatorCustomer SavedPaymentMethodInitiator = "customer"
	InitiatorMerchant SavedPaymentMethodInitiator = "merchant"
)

// SavedPaymentMethod charges an order with a method saved for a customer.
type SavedPaymentMethod struct {
	Type        SavedPaymentMethodType      `json:"type"`
	ID          string                      `json:"id"`
	Initiator   SavedPaymentMethodInitiator `json:"initiator"`
	Environment *string                     `json:"environment,omitempty"`
}

type OrderPaymentState string

const (
	OrderPaymentStatePending                 OrderPaymentState = "pending"
	OrderPaymentStateAuthenticationChallenge OrderPaymentState = "authentication_challenge"
	OrderPaymentStateAuthenticationVerified  OrderPaymentState = "authentication_verified"
	OrderPaymentStateAuthorisationStarted    OrderPaymentState = "authorisation_started"
	OrderPaymentStateAuthorisationPassed     OrderPaymentState = "authorisation_passed"
	OrderPaymentStateAuthorised              OrderPaymentState = "authorised"
	OrderPaymentStateCaptureStarted          OrderPaymentState = "capture_started"
	OrderPaymentStateCaptured                OrderPaymentState = "captured"
	OrderPaymentStateRefundValidated         OrderPaymentState = "refund_validated"
	OrderPaymentStateRefundStarted           OrderPaymentState = "refund_started"
	OrderPaymentStateCancellationStarted     OrderPaymentState = "cancellation_started"
	OrderPaymentStateDeclining               OrderPaymentState = "declining"
	OrderPaymentStateCompleting              OrderPaymentState = "completing"
	OrderPaymentStateCancelling              OrderPaymentState = "cancelling"
	OrderPaymentStateFailing                 OrderPaymentState = "failing"
	OrderPaymentStateCompleted               OrderPaymentState = "completed"
	OrderPaymentStateDeclined                OrderPaymentState = "declined"
	OrderPaymentStateSoftDeclined            OrderPaymentState = "soft_declined"
	OrderPaymentStateCancelled               OrderPaymentState = "cancelled"
	OrderPaymentStateFailed                  OrderPaymentState = "failed"
)

func (s *OrderPaymentState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = OrderPaymentState(v)
	return err
}

// OrderPaymentMethod is a card or a Revolut Pay method. Subtype is only set
// for Revolut Pay ("account" or "card").
type OrderPaymentMethod struct {
	Type     string  `json:"type"`
	Subtype  *string `json:"subtype,omitempty"`
	ID       *string `json:"id,omitempty"`
	Brand    *string `json:"brand,omitempty"`
	LastFour *string `json:"last_four,omitempty"`
}

type ThreeDSChallenge struct {
	Type   string `json:"type"`
	ACSURL string `json:"acs_url"`
}

type ThreeDSFingerprintChallenge struct {
	Type            string `json:"type"`
	FingerprintURL  string `json:"fingerprint_url"`
	FingerprintData string `json:"fingerprint_data"`
}

// OrderAuthenticationChallenge holds exactly one of its fields.
type OrderAuthenticationChallenge struct {
	ThreeDS            *ThreeDSChallenge            `json:"three_ds,omitempty"`
	ThreeDSFingerprint *ThreeDSFingerprintChallenge `json:"three_ds_fingerprint,omitempty"`
}

type OrderPayment struct {
	ID                      string                        `json:"id"`
	OrderID                 string                        `json:"order_id"`
	PaymentMethod           OrderPaymentMethod            `json:"payment_method"`
	State                   *OrderPaymentState            `json:"state,omitempty"`
	AuthenticationChallenge *OrderAuthenticationChallenge `json:"authentication_challenge,omitempty"`
}

func orderPath(id string) string { return "/orders/" + url.PathEscape(id) }

// CreateOrder uses the unversioned endpoint.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	return request[Order](ctx, c, api.Post(api.JSON(req)), c.unversioned("/orders"))
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return request[Order](ctx, c, api.Get(), c.unversioned(orderPath(orderID)))
}

func (c *Client) UpdateOrder(ctx context.Context, orderID string, req OrderRequest) (*Order, error) {
	return request[Order](ctx, c, api.Patch(api.JSON(req)), c.unversioned(orderPath(orderID)))
}

// ListOrders uses the 1.0 endpoint.
func (c *Client) ListOrders(ctx context.Context, params OrderListParams) ([]Order, error) {
	return api.Request[[]Order](ctx, c, api.Get(), c.uri("1.0", "/orders"+params.Query()))
}

// CaptureOrder captures amount (minor units) of an authorised order.
func (c *Client) CaptureOrder(ctx context.Context, orderID string, amount int64) (*Order, error) {
	body := struct {
		Amount int64 `json:"amount"`
	}{Amount: amount}
	return request[Order](ctx, c, api.Post(api.JSON(body)), c.unversioned(orderPath(orderID)+"/capture"))
}

// CancelOrder posts an empty body.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	return request[Order](ctx, c, api.Post(nil), c.unversioned(orderPath(orderID)+"/cancel"))
}

func (c *Client) RefundOrder(ctx context.Context, orderID string, req RefundRequest) (*Order, error) {
	return request[Order](ctx, c, api.Post(api.JSON(req)), c.unversioned(orderPath(orderID)+"/refund"))
}

// PayOrder charges the order with a saved payment method.
func (c *Client) PayOrder(ctx context.Context, orderID string, method SavedPaymentMethod) (*OrderPayment, error) {
	body := struct {
		SavedPaymentMethod SavedPaymentMethod `json:"saved_payment_method"`
	}{SavedPaymentMethod: method}
	return request[OrderPayment](ctx, c, api.Post(api.JSON(body)), c.unversioned(orderPath(orderID)+"/payments"))
}

func (c *Client) ListOrderPayments(ctx context.Context, orderID string) ([]OrderPayment, error) {
	return api.Request[[]OrderPayment](ctx, c, api.Get(), c.unversioned(orderPath(orderID)+"/payments"))
}
