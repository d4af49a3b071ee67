package models

import "encoding/json"

// Envelope is the backend's uniform response wrapper. Data is kept raw
// because the backend is inconsistent about its shape: the same list
// endpoint may return a bare array or a Page object.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Path       string          `json:"path"`
	Data       json.RawMessage `json:"data"`
}

// Page is the paged-object shape the backend sometimes wraps list data in.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Size          int `json:"size"`
	Number        int `json:"number"`
}

// ListParams carries the query parameters a list call accepts. Page is
// zero-based here because this is the wire boundary.
type ListParams struct {
	Page   int
	Size   int
	Search string
}
