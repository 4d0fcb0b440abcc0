package market

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

type fakeSession struct {
	mu    sync.Mutex
	token string
	user  *User
	saves int
}

func (s *fakeSession) Token(context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Save(_ context.Context, token string, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	s.saves++
	return nil
}

func (s *fakeSession) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}

func (s *fakeSession) CurrentUser(context.Context) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeSession) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := &fakeSession{}
	client, err := NewClient(Options{BaseURL: srv.URL + "/", Timeout: 5 * time.Second}, sess)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, sess
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestListParams_QueryParams(t *testing.T) {
	cases := []struct {
		name   string
		params ListParams
		want   map[string]string
	}{
		{name: "all category dropped", params: ListParams{Category: "all", Page: Int(2)}, want: map[string]string{"page": "2"}},
		{name: "category and limit", params: ListParams{Category: "Code", Limit: Int(10)}, want: map[string]string{"category": "Code", "limit": "10"}},
		{name: "zero page kept", params: ListParams{Page: Int(0)}, want: map[string]string{"page": "0"}},
		{
			name:   "every parameter",
			params: ListParams{Limit: Int(5), Search: "chat bot", Pricing: "free", Category: "Agents"},
			want:   map[string]string{"category": "Agents", "pricing": "free", "search": "chat bot", "limit": "5"},
		},
		{name: "empty", params: ListParams{Pricing: "all"}, want: map[string]string{}},
	}
	for _, tc := range cases {
		if got := tc.params.QueryParams(); !maps.Equal(got, tc.want) {
			t.Fatalf("%s: expected params=%v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestAdminListParams_QueryParams(t *testing.T) {
	if got := (AdminListParams{Status: "all", Limit: Int(20)}).QueryParams(); !maps.Equal(got, map[string]string{"limit": "20"}) {
		t.Fatalf("expected params=limit only, got %v", got)
	}
	if got := (AdminListParams{Status: "rejected"}).QueryParams(); !maps.Equal(got, map[string]string{"status": "rejected"}) {
		t.Fatalf("expected params=status only, got %v", got)
	}
	if got := (PageParams{Page: Int(3), Limit: Int(10)}).QueryParams(); !maps.Equal(got, map[string]string{"page": "3", "limit": "10"}) {
		t.Fatalf("expected page and limit, got %v", got)
	}
}

func TestClient_ListModels_SendsEveryParameter(t *testing.T) {
	var got url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"models":[]}}`)
	})
	params := ListParams{Category: "Agents", Pricing: "free", Search: "chat bot", Page: Int(1), Limit: Int(5)}
	if _, err := client.ListModels(context.Background(), params); err != nil {
		t.Fatalf("list models: %v", err)
	}
	want := map[string]string{"category": "Agents", "pricing": "free", "search": "chat bot", "page": "1", "limit": "5"}
	if len(got) != len(want) {
		t.Fatalf("expected %d parameters, got %v", len(want), got)
	}
	for key, value := range want {
		if got.Get(key) != value {
			t.Fatalf("expected %s=%q, got %q", key, value, got.Get(key))
		}
	}
}

func TestClient_ListModels_QueryAndBearer(t *testing.T) {
	var gotQuery, gotAuth, gotHeader string
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotHeader = r.Header.Get("Accept")
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"models":[{"_id":"m1","name":"Alpha","trendingScore":0}],"pagination":{"currentPage":2,"totalPages":3,"totalModels":21,"hasNext":true,"hasPrev":true}}}`)
	})
	sess.token = "tok-1"

	env, err := client.ListModels(context.Background(), ListParams{Category: "all", Page: Int(2)})
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	if gotQuery != "page=2" {
		t.Fatalf("expected query=%q, got %q", "page=2", gotQuery)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotHeader != "application/json" {
		t.Fatalf("expected accept header, got %q", gotHeader)
	}
	if len(env.Data.Models) != 1 || env.Data.Models[0].ID != "m1" {
		t.Fatalf("unexpected models: %+v", env.Data.Models)
	}
	if env.Data.Models[0].TrendingScore == nil || *env.Data.Models[0].TrendingScore != 0 {
		t.Fatalf("expected explicit zero trending score to be kept")
	}
	if env.Data.Pagination == nil || env.Data.Pagination.TotalModels != 21 {
		t.Fatalf("unexpected pagination: %+v", env.Data.Pagination)
	}
}

func TestClient_NoBearerWithoutToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"models":[],"count":0}}`)
	})
	if _, err := client.ListMyModels(context.Background()); err != nil {
		t.Fatalf("list my models: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestClient_LoginFailureMessage(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusUnauthorized} {
		client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, `{"success":false,"message":"Invalid credentials"}`)
		})
		_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if err.Error() != "Invalid credentials" {
			t.Fatalf("status %d: expected message=%q, got %q", status, "Invalid credentials", err.Error())
		}
		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Op != OpLogin || apiErr.Status != status {
			t.Fatalf("status %d: unexpected error value %#v", status, err)
		}
		if sess.saves != 0 {
			t.Fatalf("status %d: expected no session write, got %d", status, sess.saves)
		}
	}
}

func TestClient_LoginSavesSession(t *testing.T) {
	var body LoginRequest
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, `{"success":true,"message":"ok","data":{"user":{"id":"u1","email":"a@b.c"},"token":"tok-9"}}`)
	})

	env, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if body.Email != "a@b.c" || body.Password != "pw" {
		t.Fatalf("unexpected request body: %+v", body)
	}
	if env.Data.Token != "tok-9" || sess.token != "tok-9" || sess.saves != 1 {
		t.Fatalf("expected session saved with tok-9, got token=%q saves=%d", sess.token, sess.saves)
	}
	if !client.IsAuthenticated(context.Background()) {
		t.Fatalf("expected authenticated client")
	}
	if errLogout := client.Logout(context.Background()); errLogout != nil {
		t.Fatalf("logout: %v", errLogout)
	}
	if client.IsAuthenticated(context.Background()) || client.CurrentUser(context.Background()) != nil {
		t.Fatalf("expected cleared session after logout")
	}
}

func TestClient_SignupWithoutTokenSkipsSave(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"success":true,"message":"Check your email","data":{"user":{"id":"u1"}}}`)
	})
	env, err := client.Signup(context.Background(), SignupRequest{Email: "a@b.c"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if env.Message != "Check your email" {
		t.Fatalf("expected message passthrough, got %q", env.Message)
	}
	if sess.saves != 0 {
		t.Fatalf("expected no session write, got %d", sess.saves)
	}
}

func TestClient_UploadJoinsErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"success":false,"errors":["Name is required","Category is required"]}`)
	})
	_, err := client.UploadModel(context.Background(), UploadRequest{})
	if err == nil || err.Error() != "Name is required, Category is required" {
		t.Fatalf("expected joined errors, got %v", err)
	}
}

func TestClient_ErrorsListIgnoredOutsideUpload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"success":false,"errors":["bad"]}`)
	})
	_, err := client.ListModels(context.Background(), ListParams{})
	if err == nil || err.Error() != "Failed to fetch models." {
		t.Fatalf("expected fallback message, got %v", err)
	}
}

func TestClient_MalformedEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "<html>gateway</html>")
	})
	_, err := client.GetModel(context.Background(), "abc")
	if err == nil || err.Error() != "Failed to fetch model details." {
		t.Fatalf("expected fallback message, got %v", err)
	}
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response cause, got %#v", err)
	}
}

func TestClient_ListModels_LenientTimestamps(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"models":[`+
			`{"_id":"m1","updatedAt":"2024-01-01T00:00:00.000Z"},`+
			`{"_id":"m2","updatedAt":""},`+
			`{"_id":"m3","updatedAt":null,"createdAt":"yesterday"},`+
			`{"_id":"m4","updatedAt":1700000000}]}}`)
	})

	env, err := client.ListModels(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("expected listing despite bad timestamps, got %v", err)
	}
	if len(env.Data.Models) != 4 {
		t.Fatalf("expected 4 models, got %d", len(env.Data.Models))
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !env.Data.Models[0].UpdatedAt.Equal(want) {
		t.Fatalf("expected updatedAt=%s, got %s", want, env.Data.Models[0].UpdatedAt.Time)
	}
	for _, m := range env.Data.Models[1:] {
		if !m.UpdatedAt.IsZero() || !m.CreatedAt.IsZero() {
			t.Fatalf("%s: expected zero timestamps, got updated=%s created=%s", m.ID, m.UpdatedAt.Time, m.CreatedAt.Time)
		}
	}
}

func TestTimestamp_MarshalZeroAsNull(t *testing.T) {
	raw, err := json.Marshal(Model{ID: "m1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if errDecode := json.Unmarshal(raw, &decoded); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if v, ok := decoded["updatedAt"]; !ok || v != nil {
		t.Fatalf("expected updatedAt=null, got %v", v)
	}

	var back Model
	if errBack := json.Unmarshal(raw, &back); errBack != nil || !back.UpdatedAt.IsZero() {
		t.Fatalf("expected zero time after round trip, got %v err=%v", back.UpdatedAt.Time, errBack)
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client, err := NewClient(Options{BaseURL: baseURL}, &fakeSession{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, errList := client.ListPendingModels(context.Background(), PageParams{})
	var apiErr *Error
	if !errors.As(errList, &apiErr) {
		t.Fatalf("expected *Error, got %T", errList)
	}
	if apiErr.Status != 0 || apiErr.Err == nil {
		t.Fatalf("expected transport failure, got %#v", apiErr)
	}
	if apiErr.Message == "" || apiErr.Message == OpListPendingModels.FallbackMessage() {
		t.Fatalf("expected transport message, got %q", apiErr.Message)
	}
}

func TestClient_UpdateModelStatusBody(t *testing.T) {
	var bodies []map[string]any
	var paths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		bodies = append(bodies, payload)
		paths = append(paths, r.Method+" "+r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"message":"updated","data":{"model":{"_id":"m1","status":"approved"}}}`)
	})

	if _, err := client.UpdateModelStatus(context.Background(), "m1", StatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := client.UpdateModelStatus(context.Background(), "m1", StatusRejected, "Spam"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if paths[0] != "PUT /api/models/admin/m1/status" {
		t.Fatalf("unexpected request %q", paths[0])
	}
	if _, ok := bodies[0]["rejectionReason"]; ok {
		t.Fatalf("expected rejectionReason omitted, got %v", bodies[0])
	}
	if bodies[1]["status"] != "rejected" || bodies[1]["rejectionReason"] != "Spam" {
		t.Fatalf("unexpected reject body: %v", bodies[1])
	}
}

func TestModel_EffectiveRejectionReason(t *testing.T) {
	m := Model{Status: StatusApproved, RejectionReason: "stale"}
	if got := m.EffectiveRejectionReason(); got != "" {
		t.Fatalf("expected empty reason for approved model, got %q", got)
	}
	m.Status = StatusRejected
	if got := m.EffectiveRejectionReason(); got != "stale" {
		t.Fatalf("expected reason=%q, got %q", "stale", got)
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Options{}, &fakeSession{}); err == nil {
		t.Fatalf("expected error for missing base url")
	}
	if _, err := NewClient(Options{BaseURL: "http://x"}, nil); err == nil {
		t.Fatalf("expected error for nil session")
	}
}
