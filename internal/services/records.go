package services

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

const recordsPath = "/health-records"

// Records wraps /health-records.
type Records struct {
	client apiclient.Doer
}

func (r *Records) List(ctx context.Context, q v1.RecordQuery) (v1.Page[v1.HealthRecord], error) {
	return list[v1.HealthRecord](ctx, r.client, recordsPath, q)
}

// Latest returns the most recent record.
func (r *Records) Latest(ctx context.Context) (v1.HealthRecord, error) {
	return get[v1.HealthRecord](ctx, r.client, recordsPath+"/latest", nil)
}

func (r *Records) Get(ctx context.Context, id string) (v1.HealthRecord, error) {
	return get[v1.HealthRecord](ctx, r.client, path(recordsPath, id), nil)
}

func (r *Records) Create(ctx context.Context, in v1.HealthRecordInput) (v1.HealthRecord, error) {
	return send[v1.HealthRecord](ctx, r.client, http.MethodPost, recordsPath, in)
}

func (r *Records) Update(ctx context.Context, id string, in v1.HealthRecordInput) (v1.HealthRecord, error) {
	return send[v1.HealthRecord](ctx, r.client, http.MethodPut, path(recordsPath, id), in)
}

func (r *Records) Delete(ctx context.Context, id string) error {
	return del(ctx, r.client, path(recordsPath, id))
}
