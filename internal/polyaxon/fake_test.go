package polyaxon

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/imishinist/training-cli/internal/models"
	"github.com/imishinist/training-cli/internal/transport"
)

const (
	testProject  = "team.vision"
	testUsername = "robot"
	testPassword = "secret"
	testToken    = "abc123"
)

var (
	testNow      = time.Date(2019, 12, 20, 7, 10, 30, 0, time.UTC)
	testLocation = time.FixedZone("MSK", 3*60*60)
)

type staticSettings map[string]models.BackendSettings

func (s staticSettings) Lookup(name string) (models.BackendSettings, bool) {
	settings, ok := s[name]
	return settings, ok
}

type recordedRequest struct {
	Method         string
	Path           string
	Query          string
	Authorization  string
	AcceptEncoding string
	Body           map[string]any
}

// fakePolyaxon serves the subset of the Polyaxon v1 API the client uses.
type fakePolyaxon struct {
	mu sync.Mutex

	token        string
	experiments  []map[string]any
	statuses     map[int64][]map[string]any
	listBody     string
	detailBody   string
	copyResponse string
	gzip         bool

	requests []recordedRequest
}

func newFakePolyaxon(experiments ...map[string]any) *fakePolyaxon {
	if experiments == nil {
		experiments = []map[string]any{}
	}
	return &fakePolyaxon{
		token:        testToken,
		experiments:  experiments,
		statuses:     make(map[int64][]map[string]any),
		copyResponse: `{"results": {"id": 99}}`,
	}
}

func experiment(id int64, uuid string, status models.Status) map[string]any {
	return map[string]any{
		"id":          id,
		"uuid":        uuid,
		"description": "run " + strconv.FormatInt(id, 10),
		"project":     "iqtools." + testProject,
		"last_status": string(status),
		"created_at":  "2019-12-18T11:21:00.123456+03:00",
	}
}

func (f *fakePolyaxon) serve(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(server.Close)
	return server
}

func (f *fakePolyaxon) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakePolyaxon) find(method, suffix string) []recordedRequest {
	var out []recordedRequest
	for _, r := range f.recorded() {
		if r.Method == method && strings.HasSuffix(r.Path, suffix) {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakePolyaxon) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, _ := io.ReadAll(r.Body)
	rec := recordedRequest{
		Method:         r.Method,
		Path:           r.URL.Path,
		Query:          r.URL.RawQuery,
		Authorization:  r.Header.Get("Authorization"),
		AcceptEncoding: r.Header.Get("Accept-Encoding"),
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.Body)
	}
	f.requests = append(f.requests, rec)

	if r.URL.Path == "/api/v1/users/token" {
		if rec.Body["username"] != testUsername || rec.Body["password"] != testPassword {
			http.Error(w, `{"non_field_errors":["Unable to log in with provided credentials."]}`, http.StatusBadRequest)
			return
		}
		f.write(w, map[string]any{"token": f.token})
		return
	}

	prefix := "/api/v1/" + testProject + "/experiments"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"), "/")

	if parts[0] == "" {
		if f.listBody != "" {
			f.writeRaw(w, []byte(f.listBody))
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		results := f.experiments
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}
		f.write(w, map[string]any{"count": len(results), "results": results})
		return
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	current := f.byID(id)

	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}
	switch {
	case action == "" && r.Method == http.MethodGet:
		if current == nil {
			http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
			return
		}
		if f.detailBody != "" {
			f.writeRaw(w, []byte(f.detailBody))
			return
		}
		f.write(w, current)
	case action == "statuses":
		entries, ok := f.statuses[id]
		if !ok {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		f.write(w, map[string]any{"count": len(entries), "results": entries})
	case action == "copy" && r.Method == http.MethodPost:
		f.writeRaw(w, []byte(f.copyResponse))
	case action == "stop" && r.Method == http.MethodPost:
		if current == nil {
			http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
			return
		}
		current["last_status"] = string(models.StatusStopped)
		w.WriteHeader(http.StatusOK)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakePolyaxon) byID(id int64) map[string]any {
	for _, e := range f.experiments {
		if e["id"] == id {
			return e
		}
	}
	return nil
}

func (f *fakePolyaxon) write(w http.ResponseWriter, payload any) {
	body, _ := json.Marshal(payload)
	f.writeRaw(w, body)
}

func (f *fakePolyaxon) writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	if f.gzip {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write(body)
		_ = zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		body = buf.Bytes()
	}
	_, _ = w.Write(body)
}

func quietLogger() *logger.Logger {
	l := logger.New()
	l.SetOutput(io.Discard)
	return l
}

func testOptions() Options {
	return Options{
		Transport: transport.NewHTTPTransport(2 * time.Second),
		Location:  testLocation,
		Now:       func() time.Time { return testNow },
		Logger:    quietLogger(),
	}
}

func newTestClient(t *testing.T, server *httptest.Server, opts Options) *Client {
	t.Helper()
	settings := staticSettings{Name: {
		Host:     server.URL,
		Username: testUsername,
		Password: testPassword,
		Project:  testProject,
	}}
	return New(context.Background(), settings, opts)
}
