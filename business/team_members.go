package business

import (
	"context"

	"github.com/revolut-cli/revolut-cli/api"
)

type TeamMemberState string

const (
	TeamMemberStateCreated   TeamMemberState = "created"
	TeamMemberStateConfirmed TeamMemberState = "confirmed"
	TeamMemberStateWaiting   TeamMemberState = "waiting"
	TeamMemberStateActive    TeamMemberState = "active"
	TeamMemberStateLocked    TeamMemberState = "locked"
	TeamMemberStateDisabled  TeamMemberState = "disabled"
)

func (s *TeamMemberState) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = TeamMemberState(v)
	return err
}

type TeamMember struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName *string         `json:"first_name,omitempty"`
	LastName  *string         `json:"last_name,omitempty"`
	State     TeamMemberState `json:"state"`
	RoleID    string          `json:"role_id"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type TeamMemberInviteRequest struct {
	Email  string `json:"email"`
	RoleID string `json:"role_id"`
}

type TeamMemberInvite struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	RoleID    string `json:"role_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type TeamRole struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// PageParams paginates team member and role listings.
type PageParams struct {
	CreatedBefore *string
	Limit         *int
}

func (p PageParams) Query() string {
	q := &api.Query{}
	q.AddString("created_before", p.CreatedBefore)
	q.AddInt("limit", p.Limit)
	return q.Encode()
}

// ListTeamMembers is only available in production.
func (c *Client) ListTeamMembers(ctx context.Context, params PageParams) ([]TeamMember, error) {
	if err := c.env.Require(api.CapabilityTeamMembers); err != nil {
		return nil, err
	}
	return api.Request[[]TeamMember](ctx, c, api.Get(), c.uri("1.0", "/team-members"+params.Query()))
}

func (c *Client) InviteTeamMember(ctx context.Context, req TeamMemberInviteRequest) (*TeamMemberInvite, error) {
	if err := c.env.Require(api.CapabilityTeamMembers); err != nil {
		return nil, err
	}
	invite, err := api.Request[TeamMemberInvite](ctx, c, api.Post(api.JSON(req)), c.uri("1.0", "/team-members"))
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (c *Client) ListTeamRoles(ctx context.Context, params PageParams) ([]TeamRole, error) {
	if err := c.env.Require(api.CapabilityTeamMembers); err != nil {
		return nil, err
	}
	return api.Request[[]TeamRole](ctx, c, api.Get(), c.uri("1.0", "/roles"+params.Query()))
}
