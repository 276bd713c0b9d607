package merchant

import (
	"context"
	"net/url"

	"github.com/revolut-cli/revolut-cli/api"
)

type ReportType string

const (
	ReportSettlement       ReportType = "settlement_report"
	ReportCustom           ReportType = "custom_report"
	ReportPayoutStatement  ReportType = "payout_statement_report"
	ReportICPPFeeBreakdown ReportType = "icpp_fee_breakdown_report"
)

type ReportRunStatus string

const (
	ReportRunProcessing ReportRunStatus = "processing"
	ReportRunCompleted  ReportRunStatus = "completed"
	ReportRunFailed     ReportRunStatus = "failed"
	ReportRunExpired    ReportRunStatus = "expired"
)

func (s *ReportRunStatus) UnmarshalJSON(data []byte) error {
	v, err := api.DecodeEnum(data)
	*s = ReportRunStatus(v)
	return err
}

// ReportFilter selects the entities of a settlement, custom or payout
// statement report. PayoutID is only used by payout statements.
type ReportFilter struct {
	From         *string `json:"from,omitempty"`
	To           *string `json:"to,omitempty"`
	EntityTypes  *string `json:"entity_types,omitempty"`
	EntityStates *string `json:"entity_states,omitempty"`
	Currency     *string `json:"currency,omitempty"`
	LocationID   *string `json:"location_id,omitempty"`
	PayoutID     *string `json:"payout_id,omitempty"`
}

type ReportOptions struct {
	Timezone *string `json:"timezone,omitempty"`
	Columns  *string `json:"columns,omitempty"`
}

type ReportRunRequest struct {
	Type    ReportType     `json:"type"`
	Filter  *ReportFilter  `json:"filter,omitempty"`
	Format  *string        `json:"format,omitempty"`
	Options *ReportOptions `json:"options,omitempty"`
}

type ReportRun struct {
	ReportRunID string          `json:"report_run_id"`
	Status      ReportRunStatus `json:"status"`
	FileURL     *string         `json:"file_url,omitempty"`
}

func reportRunPath(id string) string { return "/report-runs/" + url.PathEscape(id) }

func (c *Client) CreateReportRun(ctx context.Context, req ReportRunRequest) (*ReportRun, error) {
	return request[ReportRun](ctx, c, api.Post(api.JSON(req)), c.unversioned("/report-runs"))
}

func (c *Client) GetReportRun(ctx context.Context, reportRunID string) (*ReportRun, error) {
	return request[ReportRun](ctx, c, api.Get(), c.unversioned(reportRunPath(reportRunID)))
}

// DownloadReport returns the report file as served, usually CSV.
func (c *Client) DownloadReport(ctx context.Context, reportRunID string) ([]byte, error) {
	return api.RequestRaw(ctx, c, api.Get(), c.unversioned(reportRunPath(reportRunID)+"/file"))
}
