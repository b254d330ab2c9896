package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"lostpets/internal/config"
	"lostpets/internal/http/handlers"
)

// fakeAPI stands in for the remote pets API and records what it receives.
type fakeAPI struct {
	mu      sync.Mutex
	creates []map[string][]string
	files   []map[string]string
	auth    []string

	createStatus int
	createBody   string
	user         string
	pet          string
	petStatus    int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/pets":
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"not multipart"}`)
			return
		}
		f.creates = append(f.creates, r.MultipartForm.Value)
		names := map[string]string{}
		for k, fh := range r.MultipartForm.File {
			names[k] = fh[0].Filename
		}
		f.files = append(f.files, names)
		if f.createStatus != 0 {
			w.WriteHeader(f.createStatus)
		}
		body := f.createBody
		if body == "" {
			body = `{"data":{"id":1,"status":"ok"}}`
		}
		_, _ = io.WriteString(w, body)
	case r.Method == http.MethodGet && r.URL.Path == "/api/users":
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		if f.user == "" || r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":{"code":401,"message":"Unauthorized"}}`)
			return
		}
		_, _ = io.WriteString(w, f.user)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/pets/"):
		if f.petStatus != 0 {
			w.WriteHeader(f.petStatus)
		}
		_, _ = io.WriteString(w, f.pet)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates)
}

// newPetsApp wires the real handlers against a fake API.
func newPetsApp(t *testing.T, api *fakeAPI) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		APIBaseURL:     srv.URL + "/api",
		MediaBaseURL:   "https://media.test",
		SessionCookie:  "token",
		APITimeout:     2 * time.Second,
		MaxUploadBytes: 1 << 20,
		SubmitGuard:    true,
	}
	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, BodyLimit: cfg.MaxUploadBytes})
	app.Use(requestid.New())

	deps := handlers.NewDeps(cfg)
	app.Get("/pets/new", deps.FormHandler.New)
	app.Post("/pets/new", deps.FormHandler.Create)
	app.Get("/pets/:id", deps.PetHandler.Detail)
	return app
}

// multipartForm encodes fields and photo files the way a browser would.
func multipartForm(t *testing.T, fields map[string]string, photos map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for field, name := range photos {
		fw, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte("photo-bytes-" + name))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"name":        "Иван Петров",
		"phone":       "89991234567",
		"email":       "ivan@example.ru",
		"district":    "Центральный",
		"kind":        "кошка",
		"register":    "0",
		"password":    "whatever",
		"mark":        "ВАС-123",
		"description": "Рыжая кошка",
		"confirm":     "1",
	}
}

func postForm(t *testing.T, app *fiber.App, fields, photos map[string]string) (int, string) {
	t.Helper()
	body, ct := multipartForm(t, fields, photos)
	req := httptest.NewRequest("POST", "/pets/new", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func get(t *testing.T, app *fiber.App, path string, cookies ...*http.Cookie) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	FormID string         `json:"form_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	mu.Lock()
	defer mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
