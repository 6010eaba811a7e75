package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func newAPIServer(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.RequestURI()
		rec.auth = r.Header.Get("Authorization")
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, rec
}

func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL, "--token", "tok"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestPayCommand(t *testing.T) {
	srv, rec := newAPIServer(t, http.StatusCreated, `{"amount":"2.50","remainingAmount":"7.50"}`)

	out, err := execute(t, srv, "pay", "ff-1", "--amount", "2.5", "--method", "Cash")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if rec.method != http.MethodPost || rec.path != "/api/v1/accounts/ff-1/pay" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.auth != "Bearer tok" {
		t.Fatalf("expected bearer token, got %q", rec.auth)
	}
	if rec.body["amount"] != "2.5" || rec.body["paymentMethod"] != "Cash" {
		t.Fatalf("unexpected body %v", rec.body)
	}
	if !strings.Contains(out, `"remainingAmount": "7.50"`) {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestBulkRefundCommand(t *testing.T) {
	srv, rec := newAPIServer(t, http.StatusCreated, `{"accountIds":["a","b"]}`)

	if _, err := execute(t, srv, "bulk", "refund", "--ids", "a,b", "--amount", "15"); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if rec.path != "/api/v1/accounts-bulk/refund" {
		t.Fatalf("unexpected path %s", rec.path)
	}
	ids, _ := rec.body["accountIds"].([]any)
	if len(ids) != 2 {
		t.Fatalf("expected two ids, got %v", rec.body["accountIds"])
	}
}

func TestCheckCommandRoutes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		path string
	}{
		{"single", []string{"check", "pay", "ff-1", "--amount", "1"}, "/api/v1/accounts/ff-1/check-pay"},
		{"bulk", []string{"check", "refund", "--ids", "a,b", "--amount", "1"}, "/api/v1/accounts-bulk/check-refund"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec := newAPIServer(t, http.StatusOK, `{}`)
			if _, err := execute(t, srv, tt.args...); err != nil {
				t.Fatalf("command failed: %v", err)
			}
			if rec.path != tt.path {
				t.Fatalf("expected %s, got %s", tt.path, rec.path)
			}
		})
	}
}

func TestAccountListCommand(t *testing.T) {
	srv, rec := newAPIServer(t, http.StatusOK, `{"accounts":[],"totalRecords":0}`)

	if _, err := execute(t, srv, "account", "list", "--user", "patron-1", "--limit", "5"); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if rec.method != http.MethodGet || rec.path != "/api/v1/accounts?limit=5&offset=0&userId=patron-1" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
}

func TestReconcileCommand(t *testing.T) {
	srv, rec := newAPIServer(t, http.StatusOK, `{"totalAccounts":1}`)

	if _, err := execute(t, srv, "reconcile"); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if rec.path != "/api/v1/reconciliation" {
		t.Fatalf("unexpected path %s", rec.path)
	}
}

func TestCommandSurfacesAPIError(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusUnprocessableEntity,
		`{"error":"validation_failed","message":"Requested amount exceeds remaining amount"}`)

	_, err := execute(t, srv, "waive", "ff-1", "--amount", "99")
	if err == nil || !strings.Contains(err.Error(), "exceeds remaining amount") {
		t.Fatalf("expected API error message, got %v", err)
	}
}

func TestTokenCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--secret", "s3cret", "--role", "admin"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if parts := strings.Split(strings.TrimSpace(out.String()), "."); len(parts) != 3 {
		t.Fatalf("expected a JWT, got %q", out.String())
	}

	bad := newRootCmd()
	bad.SetOut(io.Discard)
	bad.SetArgs([]string{"token", "--secret", "s3cret", "--role", "janitor"})
	if err := bad.Execute(); err == nil {
		t.Fatal("expected unknown role to fail")
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("print failed: %v", err)
	}

	if buf.String() != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}
