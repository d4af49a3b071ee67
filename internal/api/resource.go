package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

// ListResult is the normalised view of a list response, regardless of
// whether the backend answered with a bare array or a page object.
type ListResult[R any] struct {
	Items         []R
	TotalElements int
	TotalPages    int
	// Paged is true when the backend returned authoritative totals. When
	// false the backend ignored paging and Items holds the full result set.
	Paged bool
}

// Resource is a typed client for one backend collection. R is the item
// shape the server returns, P the writable payload.
type Resource[R any, P any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path (e.g. "/api/v1/faculties") to a client.
func NewResource[R any, P any](client *Client, path string) *Resource[R, P] {
	return &Resource[R, P]{client: client, path: path}
}

// Path returns the collection path.
func (r *Resource[R, P]) Path() string { return r.path }

// List fetches a page of the collection. A 404 means the collection is
// empty, not an error; at least one backend resource answers that way.
func (r *Resource[R, P]) List(ctx context.Context, params models.ListParams) (ListResult[R], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("size", strconv.Itoa(params.Size))
	if params.Search != "" {
		query.Set("search", params.Search)
	}

	envelope, err := r.client.Do(ctx, http.MethodGet, r.path, query, nil)
	if err != nil {
		if appErr := apperrors.FromError(err); appErr.Status == http.StatusNotFound {
			return ListResult[R]{}, nil
		}
		return ListResult[R]{}, err
	}
	return DecodeList[R](envelope.Data)
}

// Get fetches a single item.
func (r *Resource[R, P]) Get(ctx context.Context, id int64) (*R, error) {
	envelope, err := r.client.Do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", r.path, id), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeItem[R](envelope.Data)
}

// Create submits a new item and returns the server's copy.
func (r *Resource[R, P]) Create(ctx context.Context, payload P) (*R, error) {
	envelope, err := r.client.Do(ctx, http.MethodPost, r.path, nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeItem[R](envelope.Data)
}

// Update replaces an item and returns the server's copy.
func (r *Resource[R, P]) Update(ctx context.Context, id int64, payload P) (*R, error) {
	envelope, err := r.client.Do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", r.path, id), nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeItem[R](envelope.Data)
}

// Delete removes an item. Success carries a null payload.
func (r *Resource[R, P]) Delete(ctx context.Context, id int64) error {
	_, err := r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", r.path, id), nil, nil)
	return err
}

// DecodeList normalises envelope data into a flat item slice. It accepts a
// bare array, a page object, or an empty/null body; the same rows yield the
// same items either way.
func DecodeList[R any](data json.RawMessage) (ListResult[R], error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ListResult[R]{Items: []R{}}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []R
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return ListResult[R]{}, apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "decode list data")
		}
		if items == nil {
			items = []R{}
		}
		return ListResult[R]{Items: items}, nil
	case '{':
		var page models.Page[R]
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return ListResult[R]{}, apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "decode page data")
		}
		items := page.Content
		if items == nil {
			items = []R{}
		}
		return ListResult[R]{
			Items:         items,
			TotalElements: page.TotalElements,
			TotalPages:    page.TotalPages,
			Paged:         true,
		}, nil
	default:
		return ListResult[R]{}, apperrors.New(apperrors.ErrInternal.Code, 0, "unexpected list data shape")
	}
}

func decodeItem[R any](data json.RawMessage) (*R, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	item := new(R)
	if err := json.Unmarshal(trimmed, item); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "decode item data")
	}
	return item, nil
}
