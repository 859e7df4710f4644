package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/simple-lms/console/pkg/serrors"
)

// OK writes payload with 200.
func OK(w http.ResponseWriter, payload any) {
	_ = WriteJSON(w, http.StatusOK, payload)
}

// Created writes payload with 201.
func Created(w http.ResponseWriter, payload any) {
	_ = WriteJSON(w, http.StatusCreated, payload)
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Mutation is the body returned by write endpoints: the affected item and
// the collection after the write.
type Mutation[T any] struct {
	Item  T   `json:"item"`
	Items []T `json:"items"`
}

// List wraps a collection read.
type List[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func NewList[T any](items []T) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items, Total: len(items)}
}

// DecodeJSON reads a JSON body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return serrors.Wrapf(ErrInvalidRequest, "decode body: %v", err)
	}
	return nil
}

// ReadBody returns the raw request body up to the size limit.
func ReadBody(r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, serrors.Wrapf(ErrInvalidRequest, "read body: %v", err)
	}
	return b, nil
}

const maxBodyBytes = 1 << 20
