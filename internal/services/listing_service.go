package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lostpets/internal/domain"
	"lostpets/internal/imaging"
	"lostpets/internal/repos"
	"lostpets/internal/session"
	"lostpets/internal/validate"
)

const (
	MsgSuccess   = "Объявление успешно добавлено!"
	MsgTransport = "Произошла ошибка при отправке данных."
	MsgBusy      = "Объявление уже отправляется, дождитесь ответа."
)

var ErrNoSession = errors.New("no usable session token")

// UserLookup resolves a session token to the signed-in user.
type UserLookup interface {
	Current(ctx context.Context, token string) (*domain.User, error)
}

// ListingCreator submits a new listing to the API.
type ListingCreator interface {
	Create(ctx context.Context, p domain.ListingPayload) error
}

// State is the stage a submission attempt ended in.
type State int

const (
	Idle State = iota
	ValidationFailed
	Succeeded
	ServerRejected
	TransportFailed
	// Busy means the same form already had a submission outstanding.
	Busy
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ValidationFailed:
		return "validation_failed"
	case Succeeded:
		return "succeeded"
	case ServerRejected:
		return "server_rejected"
	case TransportFailed:
		return "transport_failed"
	case Busy:
		return "busy"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome is what the form shows after a submission attempt.
type Outcome struct {
	State   State
	Error   string
	Success string
	// Cause is the underlying error, for logs only.
	Cause error
	// PhotoErr reports a photo that could not be normalised and was sent as is.
	PhotoErr error
	// Reset is set when the draft was cleared after success.
	Reset bool
}

// Lookup is the result of a pre-fill attempt. Err is set for every reason
// the form stays empty; callers log it and carry on.
type Lookup struct {
	User *domain.User
	Err  error
}

type ListingOptions struct {
	ResetOnSuccess bool
	SubmitGuard    bool
	ResizePhotos   bool
}

type ListingService struct {
	Users UserLookup
	Pets  ListingCreator
	Guard *InFlight // nil allows overlapping submissions

	ResetOnSuccess bool
	ResizePhotos   bool
	Now            func() time.Time
}

func NewListingService(users UserLookup, pets ListingCreator, opts ListingOptions) *ListingService {
	s := &ListingService{
		Users:          users,
		Pets:           pets,
		ResetOnSuccess: opts.ResetOnSuccess,
		ResizePhotos:   opts.ResizePhotos,
		Now:            time.Now,
	}
	if opts.SubmitGuard {
		s.Guard = NewInFlight()
	}
	return s
}

// LookupUser asks the API who owns the session token, if there is one.
func (s *ListingService) LookupUser(ctx context.Context, src session.TokenSource) Lookup {
	tok, ok := session.Usable(src, s.now())
	if !ok {
		return Lookup{Err: ErrNoSession}
	}
	u, err := s.Users.Current(ctx, tok)
	if err == nil && u == nil {
		err = repos.ErrBadResponse
	}
	if err != nil {
		return Lookup{Err: err}
	}
	return Lookup{User: u}
}

// Prefill copies name, phone and email of the signed-in user into d. Any
// lookup failure leaves d untouched; the form never waits on or shows it.
func (s *ListingService) Prefill(ctx context.Context, src session.TokenSource, d *domain.ListingDraft) Lookup {
	res := s.LookupUser(ctx, src)
	if res.Err != nil {
		return res
	}
	d.Prefill(*res.User)
	return res
}

// Submit validates d and, when valid, sends it. formID identifies the form
// session for the in-flight guard; an empty id is never guarded.
func (s *ListingService) Submit(ctx context.Context, formID string, d *domain.ListingDraft) Outcome {
	if msg := validate.Listing(d); msg != "" {
		return Outcome{State: ValidationFailed, Error: msg}
	}

	if s.Guard != nil && formID != "" {
		if !s.Guard.Acquire(formID) {
			return Outcome{State: Busy, Error: MsgBusy}
		}
		defer s.Guard.Release(formID)
	}

	payload, photoErr := s.prepare(d)
	err := s.Pets.Create(ctx, payload)

	var rej *repos.RejectionError
	switch {
	case err == nil:
		out := Outcome{State: Succeeded, Success: MsgSuccess, PhotoErr: photoErr}
		if s.ResetOnSuccess {
			*d = domain.ListingDraft{}
			out.Reset = true
		}
		return out
	case errors.As(err, &rej):
		return Outcome{State: ServerRejected, Error: strings.Join(rej.Messages, " "), Cause: err, PhotoErr: photoErr}
	default:
		return Outcome{State: TransportFailed, Error: MsgTransport, Cause: err, PhotoErr: photoErr}
	}
}

// prepare builds the payload and, if enabled, shrinks the photos in it.
// Files that cannot be decoded are sent unchanged.
func (s *ListingService) prepare(d *domain.ListingDraft) (domain.ListingPayload, error) {
	p := BuildPayload(d)
	if !s.ResizePhotos {
		return p, nil
	}
	var firstErr error
	for i := range p.Files {
		n, err := imaging.Normalize(p.Files[i].Attachment)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", p.Files[i].Field, err)
			}
			continue
		}
		p.Files[i].Attachment = n
	}
	return p, firstErr
}

func (s *ListingService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
