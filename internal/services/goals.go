package services

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

const goalsPath = "/health-goals"

// Goals wraps /health-goals.
type Goals struct {
	client apiclient.Doer
}

func (g *Goals) List(ctx context.Context, q v1.ListQuery) (v1.Page[v1.HealthGoal], error) {
	return list[v1.HealthGoal](ctx, g.client, goalsPath, q)
}

func (g *Goals) Get(ctx context.Context, id string) (v1.HealthGoal, error) {
	return get[v1.HealthGoal](ctx, g.client, path(goalsPath, id), nil)
}

func (g *Goals) Create(ctx context.Context, in v1.HealthGoalInput) (v1.HealthGoal, error) {
	return send[v1.HealthGoal](ctx, g.client, http.MethodPost, goalsPath, in)
}

func (g *Goals) Update(ctx context.Context, id string, in v1.HealthGoalInput) (v1.HealthGoal, error) {
	return send[v1.HealthGoal](ctx, g.client, http.MethodPut, path(goalsPath, id), in)
}

// Progress records a new current value.
func (g *Goals) Progress(ctx context.Context, id string, value float64) (v1.HealthGoal, error) {
	return send[v1.HealthGoal](ctx, g.client, http.MethodPut, path(goalsPath, id, "progress"), v1.ProgressInput{CurrentValue: value})
}

func (g *Goals) Delete(ctx context.Context, id string) error {
	return del(ctx, g.client, path(goalsPath, id))
}
