package services

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

const doctorsPath = "/doctors"

// Doctors wraps /doctors. Mutations are admin only.
type Doctors struct {
	client apiclient.Doer
}

// Available lists doctors open for booking. No session required.
func (d *Doctors) Available(ctx context.Context) ([]v1.Doctor, error) {
	var out []v1.Doctor
	_, err := d.client.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   doctorsPath + "/available",
		Public: true,
	}, &out)
	return out, err
}

func (d *Doctors) List(ctx context.Context, q v1.ListQuery) (v1.Page[v1.Doctor], error) {
	return list[v1.Doctor](ctx, d.client, doctorsPath, q)
}

func (d *Doctors) Get(ctx context.Context, id string) (v1.Doctor, error) {
	return get[v1.Doctor](ctx, d.client, path(doctorsPath, id), nil)
}

func (d *Doctors) Create(ctx context.Context, in v1.DoctorInput) (v1.Doctor, error) {
	return send[v1.Doctor](ctx, d.client, http.MethodPost, doctorsPath, in)
}

func (d *Doctors) Update(ctx context.Context, id string, in v1.DoctorInput) (v1.Doctor, error) {
	return send[v1.Doctor](ctx, d.client, http.MethodPut, path(doctorsPath, id), in)
}

func (d *Doctors) Delete(ctx context.Context, id string) error {
	return del(ctx, d.client, path(doctorsPath, id))
}
