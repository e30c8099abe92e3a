package services

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

const (
	waterPath    = "/water-intake"
	exercisePath = "/exercise-log"
	sleepPath    = "/sleep-tracker"
)

// Water wraps /water-intake. Entries are append-only.
type Water struct {
	client apiclient.Doer
}

func (w *Water) List(ctx context.Context, q v1.ListQuery) (v1.Page[v1.WaterIntake], error) {
	return list[v1.WaterIntake](ctx, w.client, waterPath, q)
}

func (w *Water) Add(ctx context.Context, in v1.WaterIntakeInput) (v1.WaterIntake, error) {
	return send[v1.WaterIntake](ctx, w.client, http.MethodPost, waterPath, in)
}

func (w *Water) Delete(ctx context.Context, id string) error {
	return del(ctx, w.client, path(waterPath, id))
}

// Daily returns the total for one day.
func (w *Water) Daily(ctx context.Context, q v1.DailyQuery) (v1.DailyWater, error) {
	return get[v1.DailyWater](ctx, w.client, waterPath+"/daily", q)
}

func (w *Water) Statistics(ctx context.Context, q v1.PeriodQuery) (v1.Statistics, error) {
	return get[v1.Statistics](ctx, w.client, waterPath+"/statistics", q)
}

// Exercise wraps /exercise-log.
type Exercise struct {
	client apiclient.Doer
}

func (e *Exercise) List(ctx context.Context, q v1.ListQuery) (v1.Page[v1.ExerciseLog], error) {
	return list[v1.ExerciseLog](ctx, e.client, exercisePath, q)
}

func (e *Exercise) Create(ctx context.Context, in v1.ExerciseInput) (v1.ExerciseLog, error) {
	return send[v1.ExerciseLog](ctx, e.client, http.MethodPost, exercisePath, in)
}

func (e *Exercise) Update(ctx context.Context, id string, in v1.ExerciseInput) (v1.ExerciseLog, error) {
	return send[v1.ExerciseLog](ctx, e.client, http.MethodPut, path(exercisePath, id), in)
}

func (e *Exercise) Delete(ctx context.Context, id string) error {
	return del(ctx, e.client, path(exercisePath, id))
}

func (e *Exercise) Statistics(ctx context.Context, q v1.PeriodQuery) (v1.Statistics, error) {
	return get[v1.Statistics](ctx, e.client, exercisePath+"/statistics", q)
}

// Sleep wraps /sleep-tracker.
type Sleep struct {
	client apiclient.Doer
}

func (s *Sleep) List(ctx context.Context, q v1.ListQuery) (v1.Page[v1.SleepEntry], error) {
	return list[v1.SleepEntry](ctx, s.client, sleepPath, q)
}

func (s *Sleep) Create(ctx context.Context, in v1.SleepInput) (v1.SleepEntry, error) {
	return send[v1.SleepEntry](ctx, s.client, http.MethodPost, sleepPath, in)
}

func (s *Sleep) Update(ctx context.Context, id string, in v1.SleepInput) (v1.SleepEntry, error) {
	return send[v1.SleepEntry](ctx, s.client, http.MethodPut, path(sleepPath, id), in)
}

func (s *Sleep) Delete(ctx context.Context, id string) error {
	return del(ctx, s.client, path(sleepPath, id))
}

func (s *Sleep) Statistics(ctx context.Context, q v1.PeriodQuery) (v1.Statistics, error) {
	return get[v1.Statistics](ctx, s.client, sleepPath+"/statistics", q)
}
