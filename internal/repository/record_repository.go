package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-admin/internal/models"
	appErrors "github.com/noah-isme/sma-adp-admin/pkg/errors"
	"github.com/noah-isme/sma-adp-admin/pkg/middleware/requestid"
)

// Backend operation labels.
const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// BackendObserver receives one observation per backend call.
type BackendObserver interface {
	ObserveBackendCall(kind, op string, err error, duration time.Duration)
}

// RecordRepository reads and writes one record kind through the REST backend.
type RecordRepository struct {
	client   *resty.Client
	kind     models.Kind
	observer BackendObserver
	logger   *zap.Logger
}

// NewRecordRepository constructs a repository for kind.
func NewRecordRepository(client *resty.Client, kind models.Kind, observer BackendObserver, logger *zap.Logger) *RecordRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordRepository{client: client, kind: kind, observer: observer, logger: logger}
}

// Kind returns the record kind served by the repository.
func (r *RecordRepository) Kind() models.Kind {
	return r.kind
}

// List fetches the whole collection.
func (r *RecordRepository) List(ctx context.Context) (records []models.Record, err error) {
	defer r.observe(OpList, time.Now(), &err)

	resp, err := r.request(ctx).Get(r.kind.CollectionPath)
	if err = r.check(OpList, resp, err); err != nil {
		return nil, err
	}
	records, err = r.kind.DecodeRecords(resp.Body())
	if err != nil {
		return nil, r.wrap(OpList, err)
	}
	return records, nil
}

// Create posts a new record. Any id on record is dropped; the backend
// assigns one.
func (r *RecordRepository) Create(ctx context.Context, record models.Record) (err error) {
	defer r.observe(OpCreate, time.Now(), &err)

	record.ID = ""
	body, err := r.kind.EncodeRecord(record)
	if err != nil {
		return r.wrap(OpCreate, err)
	}
	resp, err := r.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(r.kind.CollectionPath)
	return r.check(OpCreate, resp, err)
}

// Update replaces the record addressed by id with record.
func (r *RecordRepository) Update(ctx context.Context, id models.ID, record models.Record) (err error) {
	defer r.observe(OpUpdate, time.Now(), &err)

	if id.IsZero() {
		return appErrors.Clone(appErrors.ErrBadRequest, fmt.Sprintf("update %s without id", r.kind.Name))
	}
	record.ID = id
	body, err := r.kind.EncodeRecord(record)
	if err != nil {
		return r.wrap(OpUpdate, err)
	}
	resp, err := r.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetPathParam(models.ItemPathParam, id.String()).
		Put(r.kind.ItemPath())
	return r.check(OpUpdate, resp, err)
}

// Delete removes the record addressed by id.
func (r *RecordRepository) Delete(ctx context.Context, id models.ID) (err error) {
	defer r.observe(OpDelete, time.Now(), &err)

	if id.IsZero() {
		return appErrors.Clone(appErrors.ErrBadRequest, fmt.Sprintf("delete %s without id", r.kind.Name))
	}
	resp, err := r.request(ctx).
		SetPathParam(models.ItemPathParam, id.String()).
		Delete(r.kind.ItemPath())
	return r.check(OpDelete, resp, err)
}

func (r *RecordRepository) request(ctx context.Context) *resty.Request {
	req := r.client.R().SetContext(ctx)
	if id := requestid.FromContext(ctx); id != "" {
		req.SetHeader(requestid.HeaderKey, id)
	}
	return req
}

// check collapses transport failures and non-2xx answers into one backend
// error.
func (r *RecordRepository) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return r.wrap(op, err)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return r.wrap(op, fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}
	return nil
}

func (r *RecordRepository) wrap(op string, err error) error {
	return appErrors.Wrap(err, appErrors.ErrBackend.Code, appErrors.ErrBackend.Status, fmt.Sprintf("%s %s", op, r.kind.Plural))
}

func (r *RecordRepository) observe(op string, start time.Time, err *error) {
	elapsed := time.Since(start)
	if r.observer != nil {
		r.observer.ObserveBackendCall(r.kind.Name, op, *err, elapsed)
	}
	r.logger.Debug("backend call",
		zap.String("kind", r.kind.Name),
		zap.String("op", op),
		zap.Duration("latency", elapsed),
		zap.Error(*err),
	)
}
