package repos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"

	"lostpets/internal/domain"
)

type PetRepo struct{ c *resty.Client }

func NewPetRepo(c *resty.Client) *PetRepo { return &PetRepo{c: c} }

// Create posts a listing as multipart/form-data. No auth header is sent;
// registration happens server-side when password fields are present.
func (r *PetRepo) Create(ctx context.Context, p domain.ListingPayload) error {
	form := url.Values{}
	for _, f := range p.Fields {
		form.Add(f.Name, f.Value)
	}
	req := r.c.R().
		SetContext(ctx).
		SetFormDataFromValues(form)
	for _, f := range p.Files {
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		req.SetMultipartField(f.Field, f.Filename, ct, bytes.NewReader(f.Data))
	}

	resp, err := req.Post("/pets")
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	body := resp.Body()
	if !json.Valid(body) {
		return fmt.Errorf("create listing: %w (status %d)", ErrBadResponse, resp.StatusCode())
	}
	if resp.StatusCode() == http.StatusOK {
		return nil
	}
	msgs, ok := rejectionMessages(body)
	if !ok {
		return fmt.Errorf("create listing: %w (status %d)", ErrUnrecognized, resp.StatusCode())
	}
	return &RejectionError{Status: resp.StatusCode(), Messages: msgs}
}

// Get loads one published listing.
func (r *PetRepo) Get(ctx context.Context, id string) (domain.ListingRecord, error) {
	resp, err := r.c.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get("/pets/{id}")
	if err != nil {
		return domain.ListingRecord{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusNoContent:
		return domain.ListingRecord{}, ErrNotFound
	default:
		return domain.ListingRecord{}, fmt.Errorf("get listing %s: status %d", id, resp.StatusCode())
	}
	return decodeRecord(resp.Body())
}

// decodeRecord accepts {"data":{"pet":[rec]}}, {"data":rec} and a bare rec.
func decodeRecord(body []byte) (domain.ListingRecord, error) {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.ListingRecord{}, fmt.Errorf("decode listing: %w: %v", ErrBadResponse, err)
	}

	raw := json.RawMessage(body)
	if len(env.Data) > 0 && string(env.Data) != "null" {
		raw = env.Data
		var wrapped struct {
			Pet json.RawMessage `json:"pet"`
		}
		if json.Unmarshal(raw, &wrapped) == nil && len(wrapped.Pet) > 0 {
			switch wrapped.Pet[0] {
			case '[':
				var list []domain.ListingRecord
				if err := json.Unmarshal(wrapped.Pet, &list); err != nil {
					return domain.ListingRecord{}, fmt.Errorf("decode listing: %w: %v", ErrBadResponse, err)
				}
				if len(list) == 0 {
					return domain.ListingRecord{}, ErrNotFound
				}
				return list[0], nil
			case '{':
				raw = wrapped.Pet
			}
		}
	}

	var rec domain.ListingRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.ListingRecord{}, fmt.Errorf("decode listing: %w: %v", ErrBadResponse, err)
	}
	return rec, nil
}
