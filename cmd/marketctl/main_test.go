package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
)

type backendStub struct {
	server      *httptest.Server
	statusCalls atomic.Int32
	lastQuery   atomic.Value
}

func newBackendStub(t *testing.T) *backendStub {
	t.Helper()
	stub := &backendStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/auth/login":
			_, _ = w.Write([]byte(`{"success":true,"message":"Login successful","data":{"token":"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJpZCI6InUxIiwicm9sZSI6ImFkbWluIn0.sig","user":{"id":"u1","email":"a@example.com"}}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/models":
			stub.lastQuery.Store(r.URL.RawQuery)
			_, _ = w.Write([]byte(`{"success":true,"data":{"models":[{"_id":"m1","name":"Vision"}],"count":1}}`))
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/models/admin/"):
			stub.statusCalls.Add(1)
			_, _ = w.Write([]byte(`{"success":true,"data":{"model":{"_id":"m1"}}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/models/admin/pending":
			_, _ = w.Write([]byte(`{"success":true,"data":{"models":[]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"not found"}`))
		}
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func writeTestConfig(t *testing.T, baseURL string) string {
	t.Helper()
	t.Setenv("MARKET_API_BASE_URL", "")
	t.Setenv("SESSION_DSN", "")
	t.Setenv("SESSION_SECRET", "")
	dir := t.TempDir()
	content := "api:\n  base-url: " + baseURL + "\nsession:\n  dsn: file:" + filepath.Join(dir, "session.db") + "\n"
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestModelsList_SendsFilters(t *testing.T) {
	stub := newBackendStub(t)
	configPath := writeTestConfig(t, stub.server.URL)

	out, err := execute(t, "--config", configPath, "models", "list", "--category", "vision", "--pricing", "all", "--limit", "5")
	if err != nil {
		t.Fatalf("models list: %v", err)
	}
	if got, _ := stub.lastQuery.Load().(string); got != "category=vision&limit=5" {
		t.Fatalf("expected query category=vision&limit=5, got %q", got)
	}
	var payload map[string]any
	if errDecode := json.Unmarshal([]byte(out), &payload); errDecode != nil {
		t.Fatalf("decode output %q: %v", out, errDecode)
	}
	if payload["count"] != float64(1) {
		t.Fatalf("expected count=1, got %v", payload["count"])
	}
}

func TestLoginThenWhoami(t *testing.T) {
	stub := newBackendStub(t)
	configPath := writeTestConfig(t, stub.server.URL)

	if _, err := execute(t, "--config", configPath, "login", "--email", "a@example.com", "--password", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	out, err := execute(t, "--config", configPath, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, `"active": true`) || !strings.Contains(out, `"role": "admin"`) {
		t.Fatalf("unexpected whoami output: %s", out)
	}

	if _, err := execute(t, "--config", configPath, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	out, err = execute(t, "--config", configPath, "whoami")
	if err != nil {
		t.Fatalf("whoami after logout: %v", err)
	}
	if !strings.Contains(out, `"active": false`) {
		t.Fatalf("expected inactive session, got %s", out)
	}
}

func TestAdminSetStatus_RejectRequiresReason(t *testing.T) {
	stub := newBackendStub(t)
	configPath := writeTestConfig(t, stub.server.URL)

	_, err := execute(t, "--config", configPath, "admin", "set-status", "m1", "rejected")
	if err == nil || err.Error() != "Please provide a rejection reason." {
		t.Fatalf("expected rejection reason error, got %v", err)
	}
	if stub.statusCalls.Load() != 0 {
		t.Fatalf("expected no status calls, got %d", stub.statusCalls.Load())
	}

	if _, err := execute(t, "--config", configPath, "admin", "set-status", "m1", "rejected", "--reason", "license"); err != nil {
		t.Fatalf("set-status with reason: %v", err)
	}
	if stub.statusCalls.Load() != 1 {
		t.Fatalf("expected one status call, got %d", stub.statusCalls.Load())
	}
}

func TestAdminList_InvalidFilter(t *testing.T) {
	if _, err := execute(t, "admin", "list", "--status", "archived"); err == nil {
		t.Fatalf("expected invalid filter error")
	}
}

func TestAdminList_BackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"message":"Admin access required"}`))
	}))
	t.Cleanup(srv.Close)
	configPath := writeTestConfig(t, srv.URL)

	for _, args := range [][]string{{"admin", "list"}, {"admin", "list", "--status", "all"}} {
		out, err := execute(t, append([]string{"--config", configPath}, args...)...)
		if err == nil || err.Error() != "Admin access required" {
			t.Fatalf("%v: expected backend error, got err=%v out=%s", args, err, out)
		}
		if out != "" {
			t.Fatalf("%v: expected no output, got %s", args, out)
		}
	}
}

func TestReadUploadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	content := "name: Vision\nshortDescription: sees things\ncategory: vision\npricing: free\ntags: [cv, ocr]\nisOpenSource: true\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write upload file: %v", err)
	}
	req, err := readUploadFile(path)
	if err != nil {
		t.Fatalf("readUploadFile: %v", err)
	}
	if req.Name != "Vision" || req.Category != "vision" || !req.IsOpenSource || len(req.Tags) != 2 {
		t.Fatalf("unexpected upload request: %+v", req)
	}

	emptyPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(emptyPath, []byte("category: vision\n"), 0600); err != nil {
		t.Fatalf("write upload file: %v", err)
	}
	if _, err := readUploadFile(emptyPath); err == nil {
		t.Fatalf("expected missing name error")
	}
}

func TestListParamsFromFlags_OmitsUnsetPaging(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("category", "", "")
	cmd.Flags().String("pricing", "", "")
	cmd.Flags().String("search", "", "")
	cmd.Flags().Int("page", 0, "")
	cmd.Flags().Int("limit", 0, "")
	if err := cmd.Flags().Parse([]string{"--page", "0"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	params := listParamsFromFlags(cmd)
	if params.Page == nil || *params.Page != 0 {
		t.Fatalf("expected explicit page=0, got %v", params.Page)
	}
	if params.Limit != nil {
		t.Fatalf("expected limit unset, got %v", *params.Limit)
	}
}
