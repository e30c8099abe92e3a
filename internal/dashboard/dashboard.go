// Package dashboard loads the data behind the overview and report screens.
//
// Each loader issues its requests in parallel. A failed request is logged
// and leaves its part of the result empty; it does not fail the others.
// Only session failures, and failures of data a screen cannot render
// without, are returned as errors.
package dashboard

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/healthdash/internal/logging"
	"github.com/fyrsmithlabs/healthdash/internal/reports"
	"github.com/fyrsmithlabs/healthdash/internal/services"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// ReportSampleSize is how many raw records and chats feed the client-side
// report series.
const ReportSampleSize = 100

// Loader fans out page loads over a service registry.
type Loader struct {
	reg    services.Registry
	logger *logging.Logger
	loc    *time.Location
}

// NewLoader creates a loader. A nil logger discards output; dates are
// grouped in time.Local.
func NewLoader(reg services.Registry, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Loader{reg: reg, logger: logger.Named("dashboard"), loc: time.Local}
}

// WithLocation returns a copy of l that groups dates in loc.
func (l *Loader) WithLocation(loc *time.Location) *Loader {
	cp := *l
	cp.loc = loc
	return &cp
}

// Overview is the user home screen.
type Overview struct {
	Summary         *v1.DashboardReport
	Latest          *v1.HealthRecord
	ActiveReminders []v1.Reminder
	// ReminderTotal is nil when the count could not be loaded.
	ReminderTotal *int
	// Failed names the sections that could not be loaded.
	Failed []string
}

// AdminOverview is the admin home screen.
type AdminOverview struct {
	RecentUsers []v1.User
	UserTotal   *int
	Stats       *v1.AdminStats
	Failed      []string
}

// Reports is the report screen.
type Reports struct {
	Health  v1.HealthReport
	Chatbot v1.ChatbotReport
	Failed  []string
}

// collector gathers per-section failures from concurrent loads.
type collector struct {
	logger *logging.Logger
	ctx    context.Context
	failed chan string
}

// isolate logs err and swallows it unless it means the session is gone.
func (c *collector) isolate(section string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, v1.ErrUnauthorized) || errors.Is(err, v1.ErrNotAuthenticated) {
		return err
	}
	c.logger.Warn(c.ctx, "section failed to load", zap.String("section", section), zap.Error(err))
	c.failed <- section
	return nil
}

func (c *collector) done() []string {
	close(c.failed)
	var out []string
	for s := range c.failed {
		out = append(out, s)
	}
	return out
}

func (l *Loader) collector(ctx context.Context, sections int) *collector {
	return &collector{logger: l.logger, ctx: ctx, failed: make(chan string, sections)}
}

// LoadOverview loads the summary, the latest record, up to five active
// reminders and the reminder total.
func (l *Loader) LoadOverview(ctx context.Context) (Overview, error) {
	var (
		out Overview
		g   errgroup.Group
		c   = l.collector(ctx, 4)
	)

	g.Go(func() error {
		s, err := l.reg.Reports().Dashboard(ctx)
		if err == nil {
			out.Summary = &s
		}
		return c.isolate("summary", err)
	})
	g.Go(func() error {
		page, err := l.reg.Records().List(ctx, v1.RecordQuery{ListQuery: v1.ListQuery{Limit: 1}})
		if err == nil && len(page.Items) > 0 {
			out.Latest = &page.Items[0]
		}
		return c.isolate("latest record", err)
	})
	g.Go(func() error {
		page, err := l.reg.Reminders().List(ctx, v1.ReminderQuery{
			ListQuery: v1.ListQuery{Limit: 5},
			IsActive:  v1.Bool(true),
		})
		if err == nil {
			out.ActiveReminders = page.Items
		}
		return c.isolate("active reminders", err)
	})
	g.Go(func() error {
		page, err := l.reg.Reminders().List(ctx, v1.ReminderQuery{ListQuery: v1.ListQuery{Limit: 1}})
		if err == nil {
			total := page.Pagination.TotalItems
			out.ReminderTotal = &total
		}
		return c.isolate("reminder total", err)
	})

	err := g.Wait()
	out.Failed = c.done()
	return out, err
}

// LoadAdminOverview loads the five newest users and platform statistics.
func (l *Loader) LoadAdminOverview(ctx context.Context) (AdminOverview, error) {
	var (
		out AdminOverview
		g   errgroup.Group
		c   = l.collector(ctx, 2)
	)

	g.Go(func() error {
		page, err := l.reg.Users().List(ctx, v1.ListQuery{Page: 1, Limit: 5})
		if err == nil {
			out.RecentUsers = page.Items
			total := page.Pagination.TotalItems
			out.UserTotal = &total
		}
		return c.isolate("users", err)
	})
	g.Go(func() error {
		s, err := l.reg.Reports().AdminStats(ctx)
		if err == nil {
			out.Stats = &s
		}
		return c.isolate("admin stats", err)
	})

	err := g.Wait()
	out.Failed = c.done()
	return out, err
}

// LoadReports fetches both reports and the raw data behind them, then fills
// any series the server left empty. Failing to load raw records is fatal;
// everything else degrades.
func (l *Loader) LoadReports(ctx context.Context, q v1.ReportQuery) (Reports, error) {
	var (
		healthSrv  v1.HealthReport
		chatSrv    v1.ChatbotReport
		records    []v1.HealthRecord
		chats      []v1.ChatExchange
		recordsErr error
		g          errgroup.Group
		c          = l.collector(ctx, 3)
	)
	sample := v1.ListQuery{Page: 1, Limit: ReportSampleSize}

	g.Go(func() error {
		r, err := l.reg.Reports().Health(ctx, q)
		if err == nil {
			healthSrv = r
		}
		return c.isolate("health report", err)
	})
	g.Go(func() error {
		r, err := l.reg.Reports().Chatbot(ctx, q)
		if err == nil {
			chatSrv = r
		}
		return c.isolate("chatbot report", err)
	})
	g.Go(func() error {
		page, err := l.reg.Records().List(ctx, v1.RecordQuery{ListQuery: sample, StartDate: q.StartDate, EndDate: q.EndDate})
		records, recordsErr = page.Items, err
		return nil
	})
	g.Go(func() error {
		page, err := l.reg.Chatbot().History(ctx, sample)
		if err == nil {
			chats = page.Items
		}
		return c.isolate("chat history", err)
	})

	if err := g.Wait(); err != nil {
		c.done()
		return Reports{}, err
	}
	failed := c.done()
	if recordsErr != nil {
		return Reports{Failed: failed}, recordsErr
	}

	return Reports{
		Health:  reports.BuildHealthReport(healthSrv, records, l.loc),
		Chatbot: reports.BuildChatbotReport(chatSrv, chats, l.loc),
		Failed:  failed,
	}, nil
}
