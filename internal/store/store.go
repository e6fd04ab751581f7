// Package store is the HTTP collaborator for the remote record document:
// GET record by id, PUT partial fields, POST create. The store returns
// classified errors so the write queue's retry policy can distinguish
// transient failures from terminal ones.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	errs "github.com/studyvault/recordsync/internal/errors"
	"github.com/studyvault/recordsync/internal/types"
)

// Store performs record operations against the remote document store.
type Store struct {
	http    *http.Client
	baseURL string
	tokens  TokenProvider
}

// New constructs a Store. The http client's transport is owned by the
// caller (the façade layers debug logging there).
func New(httpClient *http.Client, baseURL string, tokens TokenProvider) *Store {
	return &Store{http: httpClient, baseURL: baseURL, tokens: tokens}
}

// FetchRecord retrieves the record by id. Returns types.ErrNotFound when
// the store has no such record.
func (s *Store) FetchRecord(ctx context.Context, recordID string) (*types.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(recordID, "recordId"); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/records/%s", s.baseURL, recordID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.do(req, "fetch record")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		var rec types.Record
		if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
			return nil, fmt.Errorf("fetch record: decode: %w", err)
		}
		if rec.ID == "" {
			rec.ID = recordID
		}
		return &rec, nil
	case http.StatusNotFound:
		return nil, types.ErrNotFound
	default:
		return nil, errs.NewHTTPError(resp.StatusCode, readBody(resp.Body), "fetch record")
	}
}

// WriteRecord updates the given fields of the record; fields omitted from
// the payload are left untouched server-side.
func (s *Store) WriteRecord(ctx context.Context, recordID string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateIDPresent(recordID, "recordId"); err != nil {
		return err
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("write record: encode: %w", err)
	}
	url := fmt.Sprintf("%s/api/records/%s", s.baseURL, recordID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.do(req, "write record")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	default:
		return errs.NewHTTPError(resp.StatusCode, readBody(resp.Body), "write record")
	}
}

// CreateRecord materializes an empty record for ownerID. Used exactly once
// per new user.
func (s *Store) CreateRecord(ctx context.Context, ownerID string, initial map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := types.ValidateIDPresent(ownerID, "ownerId"); err != nil {
		return "", err
	}
	doc := map[string]any{"ownerId": ownerID}
	for k, v := range initial {
		doc[k] = v
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("create record: encode: %w", err)
	}
	url := fmt.Sprintf("%s/api/records", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.do(req, "create record")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var out struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", fmt.Errorf("create record: decode: %w", err)
		}
		return out.ID, nil
	default:
		return "", errs.NewHTTPError(resp.StatusCode, readBody(resp.Body), "create record")
	}
}

// do attaches the bearer token and issues the request. A missing token
// fails the call before it touches the network; transport errors come back
// classified as recoverable.
func (s *Store) do(req *http.Request, operation string) (*http.Response, error) {
	token, err := s.tokens.Token(req.Context())
	if err != nil || token == "" {
		return nil, errs.NewAuthError(operation)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, errs.NewNetworkError(operation, err)
	}
	return resp, nil
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	return string(b)
}
