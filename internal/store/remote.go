package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/notify"
)

// RemoteConfig carries the record-store endpoint and the two opaque
// credentials used to construct the client. Validity of the credentials is
// the record store's concern, not ours.
type RemoteConfig struct {
	BaseURL string
	AppID   string
	APIKey  string
}

const remoteRequestTimeout = 30 * time.Second

// Remote is the record-API store variant. It speaks JSON over HTTP to one
// collection and holds the fail-soft contract: transport and server
// failures are logged, surfaced on the notification feed, and converted to
// an empty, zero, or false result. Callers never see a transport error.
type Remote[T Record[T], P Patch[T]] struct {
	collection string
	label      string
	fields     []string
	cfg        RemoteConfig
	client     *http.Client
	logger     *zap.SugaredLogger
	notifier   notify.Notifier
}

// NewRemote builds a client for one collection. fields is the selection
// submitted with every list request; label names the resource in
// user-facing notifications ("task", "category").
func NewRemote[T Record[T], P Patch[T]](cfg RemoteConfig, collection, label string, fields []string, logger *zap.SugaredLogger, notifier notify.Notifier) *Remote[T, P] {
	return &Remote[T, P]{
		collection: collection,
		label:      label,
		fields:     fields,
		cfg:        cfg,
		client:     &http.Client{Timeout: remoteRequestTimeout},
		logger:     logger,
		notifier:   notifier,
	}
}

// apiResponse is the record-store envelope. Reads carry data; writes carry
// a per-record results array even for the single-record batches we submit.
type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Results []apiResult     `json:"results"`
}

type apiResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []apiFieldError `json:"errors"`
}

type apiFieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}

func (r *Remote[T, P]) List(ctx context.Context) ([]T, error) {
	body := map[string]any{"fields": r.fields}
	resp, _, err := r.do(ctx, http.MethodPost, fmt.Sprintf("%s/%s/fetch", r.cfg.BaseURL, r.collection), body)
	if err != nil {
		r.failSoft("list", err)
		return []T{}, nil
	}
	if !resp.Success {
		r.failSoft("list", fmt.Errorf("server: %s", resp.Message))
		return []T{}, nil
	}
	var records []T
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &records); err != nil {
			r.failSoft("list", fmt.Errorf("decode records: %w", err))
			return []T{}, nil
		}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (r *Remote[T, P]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	resp, status, err := r.do(ctx, http.MethodGet, fmt.Sprintf("%s/%s/%s", r.cfg.BaseURL, r.collection, id), nil)
	if err != nil {
		if status == http.StatusNotFound {
			return zero, ErrNotFound
		}
		r.failSoft("get", err)
		return zero, ErrNotFound
	}
	if !resp.Success || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return zero, ErrNotFound
	}
	var rec T
	if err := json.Unmarshal(resp.Data, &rec); err != nil {
		r.failSoft("get", fmt.Errorf("decode record: %w", err))
		return zero, ErrNotFound
	}
	return rec, nil
}

func (r *Remote[T, P]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	body := map[string]any{"records": []any{rec}}
	resp, _, err := r.do(ctx, http.MethodPost, fmt.Sprintf("%s/%s", r.cfg.BaseURL, r.collection), body)
	if err != nil {
		r.failSoft("create", err)
		return zero, nil
	}
	stored, err := r.firstResult(resp)
	if err != nil {
		r.failSoft("create", err)
		return zero, nil
	}
	return stored, nil
}

func (r *Remote[T, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var zero T
	fields, err := patchFields(patch, id)
	if err != nil {
		r.failSoft("update", err)
		return zero, nil
	}
	body := map[string]any{"records": []any{fields}}
	resp, status, err := r.do(ctx, http.MethodPut, fmt.Sprintf("%s/%s", r.cfg.BaseURL, r.collection), body)
	if err != nil {
		if status == http.StatusNotFound {
			return zero, ErrNotFound
		}
		r.failSoft("update", err)
		return zero, nil
	}
	stored, err := r.firstResult(resp)
	if err != nil {
		r.failSoft("update", err)
		return zero, nil
	}
	return stored, nil
}

func (r *Remote[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	body := map[string]any{"RecordIds": []string{id}}
	resp, status, err := r.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%s", r.cfg.BaseURL, r.collection), body)
	if err != nil {
		if status == http.StatusNotFound {
			return false, nil
		}
		r.failSoft("delete", err)
		return false, nil
	}
	if !resp.Success {
		r.failSoft("delete", fmt.Errorf("server: %s", resp.Message))
		return false, nil
	}
	for _, result := range resp.Results {
		if !result.Success {
			return false, nil
		}
	}
	return true, nil
}

// firstResult unpacks the single-record batch echo, tolerating the
// per-record partial-failure shape even though we only ever submit one.
func (r *Remote[T, P]) firstResult(resp *apiResponse) (T, error) {
	var zero T
	if !resp.Success {
		return zero, fmt.Errorf("server: %s", resp.Message)
	}
	if len(resp.Results) == 0 {
		// Some deployments answer writes with a bare data payload.
		if len(resp.Data) > 0 && string(resp.Data) != "null" {
			var rec T
			if err := json.Unmarshal(resp.Data, &rec); err != nil {
				return zero, fmt.Errorf("decode record: %w", err)
			}
			return rec, nil
		}
		return zero, fmt.Errorf("empty result batch")
	}
	result := resp.Results[0]
	if !result.Success {
		msg := result.Message
		for _, fieldErr := range result.Errors {
			msg = fmt.Sprintf("%s; %s: %s", msg, fieldErr.FieldLabel, fieldErr.Message)
		}
		return zero, fmt.Errorf("record rejected: %s", msg)
	}
	var rec T
	if err := json.Unmarshal(result.Data, &rec); err != nil {
		return zero, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func (r *Remote[T, P]) do(ctx context.Context, method, url string, body any) (*apiResponse, int, error) {
	var payload *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewBuffer(encoded)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-Id", r.cfg.AppID)
	req.Header.Set("X-Api-Key", r.cfg.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, resp.StatusCode, fmt.Errorf("%s %s: status 404", method, url)
	}
	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return &decoded, resp.StatusCode, nil
}

// patchFields flattens a patch to its wire fields plus the record id. Unset
// patch fields marshal away, so the store only sees what changed.
func patchFields(patch any, id string) (map[string]any, error) {
	encoded, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, fmt.Errorf("flatten patch: %w", err)
	}
	fields["Id"] = id
	return fields, nil
}

func (r *Remote[T, P]) failSoft(op string, err error) {
	if r.logger != nil {
		r.logger.Errorw("record store request failed",
			"collection", r.collection,
			"op", op,
			"error", err,
		)
	}
	if r.notifier != nil {
		r.notifier.Error(fmt.Sprintf("Failed to %s %s", opVerb(op), r.label))
	}
}

func opVerb(op string) string {
	switch op {
	case "list", "get":
		return "load"
	default:
		return op
	}
}
