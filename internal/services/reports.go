package services

import (
	"context"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// Reports wraps /reports. The payloads may be partial; see package reports
// for filling gaps from raw data.
type Reports struct {
	client apiclient.Doer
}

func (r *Reports) Health(ctx context.Context, q v1.ReportQuery) (v1.HealthReport, error) {
	return get[v1.HealthReport](ctx, r.client, "/reports/health", q)
}

func (r *Reports) Chatbot(ctx context.Context, q v1.ReportQuery) (v1.ChatbotReport, error) {
	return get[v1.ChatbotReport](ctx, r.client, "/reports/chatbot", q)
}

func (r *Reports) Dashboard(ctx context.Context) (v1.DashboardReport, error) {
	return get[v1.DashboardReport](ctx, r.client, "/reports/dashboard", nil)
}

// AdminStats returns platform-wide counters. Admin only.
func (r *Reports) AdminStats(ctx context.Context) (v1.AdminStats, error) {
	return get[v1.AdminStats](ctx, r.client, "/reports/admin/stats", nil)
}
