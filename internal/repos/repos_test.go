package repos_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"lostpets/internal/domain"
	"lostpets/internal/repos"
)

func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *repos.UserRepo, *repos.PetRepo) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := repos.NewClient(srv.URL+"/api", 2*time.Second)
	return srv, repos.NewUserRepo(c), repos.NewPetRepo(c)
}

func TestCurrentUserSendsBearer(t *testing.T) {
	var gotAuth, gotPath string
	_, users, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"name":"Анна","phone":"+79990001122","email":"anna@example.ru"}`)
	})

	u, err := users.Current(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if gotAuth != "Bearer tok-1" || gotPath != "/api/users" {
		t.Fatalf("unexpected request auth=%q path=%q", gotAuth, gotPath)
	}
	want := &domain.User{Name: "Анна", Phone: "+79990001122", Email: "anna@example.ru"}
	if diff := cmp.Diff(want, u); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}
}

func TestCurrentUserDataEnvelope(t *testing.T) {
	_, users, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"name":"Олег","phone":"1","email":"o@x.ru"}}`)
	})
	u, err := users.Current(context.Background(), "tok")
	if err != nil || u.Name != "Олег" {
		t.Fatalf("want enveloped user, got %+v err=%v", u, err)
	}
}

func TestCurrentUserUnauthorized(t *testing.T) {
	_, users, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"code":401,"message":"Unauthorized"}}`)
	})
	if _, err := users.Current(context.Background(), "bad"); !errors.Is(err, repos.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestCreateSendsMultipart(t *testing.T) {
	var form map[string][]string
	var files map[string]string
	_, _, pets := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/pets" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("create must not send an auth header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		form = r.MultipartForm.Value
		files = map[string]string{}
		for k, fh := range r.MultipartForm.File {
			files[k] = fh[0].Filename
		}
		_, _ = io.WriteString(w, `{"data":{"id":7}}`)
	})

	p := domain.ListingPayload{
		Fields: []domain.FormField{{Name: "name", Value: "Иван"}, {Name: "confirm", Value: "1"}},
		Files: []domain.FilePart{
			{Field: "photos1", Attachment: domain.Attachment{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")}},
			{Field: "photos3", Attachment: domain.Attachment{Filename: "c.jpg", Data: []byte("c")}},
		},
	}
	if err := pets.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if diff := cmp.Diff(map[string][]string{"name": {"Иван"}, "confirm": {"1"}}, form); diff != "" {
		t.Errorf("form mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"photos1": "a.jpg", "photos3": "c.jpg"}, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateRejectionShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []string
	}{
		{"nested string", `{"error":{"code":422,"errors":"Телефон занят"}}`, []string{"Телефон занят"}},
		{"nested map", `{"error":{"code":422,"errors":{"phone":["Телефон занят"],"email":["Почта занята"]}}}`, []string{"Почта занята", "Телефон занят"}},
		{"nested message", `{"error":{"code":422,"message":"Validation error"}}`, []string{"Validation error"}},
		{"flat message", `{"message":"Server busy"}`, []string{"Server busy"}},
		{"flat error string", `{"error":"Bad request"}`, []string{"Bad request"}},
		{"markup stripped", `{"error":{"errors":["<b>Плохо</b> &amp; медленно","<b>Плохо</b> &amp; медленно"]}}`, []string{"Плохо & медленно"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, pets := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = io.WriteString(w, tc.body)
			})
			err := pets.Create(context.Background(), domain.ListingPayload{Files: []domain.FilePart{{Field: "photos1", Attachment: domain.Attachment{Filename: "a.jpg", Data: []byte("a")}}}})
			var rej *repos.RejectionError
			if !errors.As(err, &rej) {
				t.Fatalf("want RejectionError, got %v", err)
			}
			if rej.Status != http.StatusUnprocessableEntity {
				t.Errorf("status: got %d", rej.Status)
			}
			if diff := cmp.Diff(tc.want, rej.Messages); diff != "" {
				t.Errorf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreateUnrecognizedAndMalformed(t *testing.T) {
	_, _, pets := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400}}`)
	})
	if err := pets.Create(context.Background(), domain.ListingPayload{}); !errors.Is(err, repos.ErrUnrecognized) {
		t.Fatalf("want ErrUnrecognized, got %v", err)
	}

	_, _, pets = newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>ok</html>`)
	})
	if err := pets.Create(context.Background(), domain.ListingPayload{}); !errors.Is(err, repos.ErrBadResponse) {
		t.Fatalf("want ErrBadResponse for non-JSON success body, got %v", err)
	}
}

func TestGetDecodesAllShapes(t *testing.T) {
	want := domain.ListingRecord{Kind: "собака", District: "Василеостровский", Photos1: "/images/1.png"}
	bodies := []string{
		`{"data":{"pet":[{"kind":"собака","district":"Василеостровский","photos1":"/images/1.png","photos2":null}]}}`,
		`{"data":{"kind":"собака","district":"Василеостровский","photos1":"/images/1.png"}}`,
		`{"kind":"собака","district":"Василеостровский","photos1":"/images/1.png"}`,
	}
	for _, body := range bodies {
		_, _, pets := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/pets/12" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = io.WriteString(w, body)
		})
		got, err := pets.Get(context.Background(), "12")
		if err != nil {
			t.Fatalf("Get(%s): %v", body, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("record mismatch for %s (-want +got):\n%s", body, diff)
		}
	}
}

func TestGetNotFound(t *testing.T) {
	_, _, pets := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	if _, err := pets.Get(context.Background(), "404"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCreateHonoursContext(t *testing.T) {
	block := make(chan struct{})
	_, _, pets := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-block
	})
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := pets.Create(ctx, domain.ListingPayload{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
}
