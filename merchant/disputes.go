package merchant

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type DisputeState string

const (
	DisputeStateNeedsResponse DisputeState = "needs_response"
	DisputeStateUnderReview   DisputeState = "under_review"
	DisputeStateWon           DisputeState = "won"
	DisputeStateLost          DisputeState = "lost"
)

func (s *DisputeState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = DisputeState(v)
	return err
}

type DisputeSubstate string

const (
	DisputeSubstateArbitration        DisputeSubstate = "arbitration"
	DisputeSubstateLostAccepted       DisputeSubstate = "lost_accepted"
	DisputeSubstateLostArbitration    DisputeSubstate = "lost_arbitration"
	DisputeSubstateLostExpired        DisputeSubstate = "lost_expired"
	DisputeSubstateLostPreArbitration DisputeSubstate = "lost_pre_arbitration"
	DisputeSubstateNew                DisputeSubstate = "new"
	DisputeSubstatePreArbitration     DisputeSubstate = "pre_arbitration"
	DisputeSubstateRepresentment      DisputeSubstate = "representment"
	DisputeSubstateWonArbitration     DisputeSubstate = "won_arbitration"
	DisputeSubstateWonPreArbitration  DisputeSubstate = "won_pre_arbitration"
	DisputeSubstateWonRepresentment   DisputeSubstate = "won_representment"
	DisputeSubstateWonReversal        DisputeSubstate = "won_reversal"
)

func (s *DisputeSubstate) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = DisputeSubstate(v)
	return err
}

type DisputePaymentMethod struct {
	Type         *PaymentMethodType `json:"type,omitempty"`
	CardBrand    *string            `json:"card_brand,omitempty"`
	CardLastFour *string            `json:"card_last_four,omitempty"`
}

type DisputePayment struct {
	ID            *string               `json:"id,omitempty"`
	OrderID       *string               `json:"order_id,omitempty"`
	CreatedAt     *string               `json:"created_at,omitempty"`
	ARN           *string               `json:"arn,omitempty"`
	Amount        *int64                `json:"amount,omitempty"`
	Currency      *string               `json:"currency,omitempty"`
	PaymentMethod *DisputePaymentMethod `json:"payment_method,omitempty"`
}

type Dispute struct {
	ID                *string          `json:"id,omitempty"`
	State             *DisputeState    `json:"state,omitempty"`
	Substate          *DisputeSubstate `json:"substate,omitempty"`
	CreatedAt         *string          `json:"created_at,omitempty"`
	UpdatedAt         *string          `json:"updated_at,omitempty"`
	ResponseDueDate   *string          `json:"response_due_date,omitempty"`
	ReasonCode        *string          `json:"reason_code,omitempty"`
	ReasonDescription *string          `json:"reason_description,omitempty"`
	Amount            *int64           `json:"amount,omitempty"`
	Currency          *string          `json:"currency,omitempty"`
	Payment           *DisputePayment  `json:"payment,omitempty"`
}

// EvidenceType is the content type of an evidence file.
type EvidenceType string

const (
	EvidencePDF  EvidenceType = "application/pdf"
	EvidencePNG  EvidenceType = "image/png"
	EvidenceJPEG EvidenceType = "image/jpeg"
)

type EvidenceRequest struct {
	FileName string
	Type     EvidenceType
	Data     []byte
}

type Evidence struct {
	ID string `json:"id"`
}

type ChallengeDisputeRequest struct {
	Reason    string   `json:"reason"`
	Comment   *string  `json:"comment,omitempty"`
	Evidences []string `json:"evidences"`
}

func disputePath(id string) string { return "/disputes/" + url.PathEscape(id) }

// ListDisputes is only available in production.
func (c *Client) ListDisputes(ctx context.Context) ([]Dispute, error) {
	if err := c.env.Require(api.CapabilityDisputes); err != nil {
		return nil, err
	}
	return api.Request[[]Dispute](ctx, c, api.Get(), c.unversioned("/disputes"))
}

func (c *Client) GetDispute(ctx context.Context, disputeID string) (*Dispute, error) {
	if err := c.env.Require(api.CapabilityDisputes); err != nil {
		return nil, err
	}
	return request[Dispute](ctx, c, api.Get(), c.unversioned(disputePath(disputeID)))
}

// AcceptDispute concedes the dispute. The body is empty.
func (c *Client) AcceptDispute(ctx context.Context, disputeID string) error {
	if err := c.env.Require(api.CapabilityDisputes); err != nil {
		return err
	}
	return c.Do(ctx, api.Post(nil), c.unversioned(disputePath(disputeID)+"/accept"), nil)
}

// UploadDisputeEvidence sends the file as the multipart part "file".
func (c *Client) UploadDisputeEvidence(ctx context.Context, disputeID string, evidence EvidenceRequest) (*Evidence, error) {
	if err := c.env.Require(api.CapabilityDisputes); err != nil {
		return nil, err
	}
	body := api.Multipart(api.Part{
		Name:        "file",
		FileName:    evidence.FileName,
		ContentType: string(evidence.Type),
		Contents:    evidence.Data,
	})
	return request[Evidence](ctx, c, api.Post(body), c.unversioned(disputePath(disputeID)+"/evidences"))
}

func (c *Client) ChallengeDispute(ctx context.Context, disputeID string, req ChallengeDisputeRequest) error {
	if err := c.env.Require(api.CapabilityDisputes); err != nil {
		return err
	}
	return c.Do(ctx, api.Post(api.JSON(req)), c.unversioned(disputePath(disputeID)+"/challenge"), nil)
}
