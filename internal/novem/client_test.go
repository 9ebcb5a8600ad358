package novem

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	ctxerrors "github.com/novem-code/novem-cli/internal/errors"
)

func TestRead_SendsBasicAuthAndUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET method, got %s", r.Method)
		}
		if r.URL.Path != "/v1/vis/plots/sales/config/type" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "" || pass != "test-token" {
			t.Errorf("expected basic auth with empty user, got %q/%q (ok=%v)", user, pass, ok)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "NovemCli/1.2.3 Go/") {
			t.Errorf("unexpected user agent %q", ua)
		}
		_, _ = io.WriteString(w, "bar")
	}))
	defer server.Close()

	client := NewClient("test-token").
		WithAPIRoot(server.URL + "/v1").
		WithUserAgent(UserAgent("1.2.3"))

	got, err := client.Read(context.Background(), VisPath(KindPlot, "sales", "/config/type"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "bar" {
		t.Errorf("expected %q, got %q", "bar", got)
	}
}

func TestWrite_PostsPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST method, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "text/plain" {
			t.Errorf("expected text/plain, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "a,b\n1,2\n" {
			t.Errorf("unexpected body %q", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIRoot(server.URL)
	if err := client.Write(context.Background(), "vis/plots/sales/data", "a,b\n1,2\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateAndDelete_Methods(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIRoot(server.URL + "/")
	ctx := context.Background()
	if err := client.Create(ctx, VisPath(KindMail, "weekly")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := client.Delete(ctx, VisPath(KindMail, "weekly")); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{"PUT /vis/mails/weekly", "DELETE /vis/mails/weekly"}
	if strings.Join(methods, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, methods)
	}
}

func TestRead_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Message: "no such plot"})
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIRoot(server.URL)
	_, err := client.Read(context.Background(), "vis/plots/missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("expected IsNotFound, got %v", err)
	}
	if !ctxerrors.IsContextualError(err) {
		t.Errorf("expected contextual error wrapper, got %T", err)
	}
	if !strings.Contains(err.Error(), "no such plot") {
		t.Errorf("expected service message in error, got %q", err.Error())
	}
}

func TestRead_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIRoot(server.URL).WithMaxRetries(1)
	got, err := client.Read(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected ok after 2 calls, got %q after %d", got, calls)
	}
}

func TestRead_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Message: "bad token"})
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIRoot(server.URL)
	_, err := client.Read(context.Background(), "x")
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestRead_ContextCanceledDuringRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient("tok").WithAPIRoot(server.URL)
	client.httpClient.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		cancel()
		return http.DefaultTransport.RoundTrip(r)
	})

	_, err := client.Read(ctx, "x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCreateToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if _, _, ok := r.BasicAuth(); ok {
			t.Error("token request must not carry basic auth")
		}
		var req TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Username != "alice" || req.Password != "secret" {
			t.Errorf("unexpected credentials %+v", req)
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{Status: "ok", Token: "nbt-123", TokenName: "cli"})
	}))
	defer server.Close()

	client := NewClient("").WithAPIRoot(server.URL)
	tok, err := client.CreateToken(context.Background(), TokenRequest{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Token != "nbt-123" {
		t.Errorf("expected token nbt-123, got %q", tok.Token)
	}
}

func TestParseVisKind(t *testing.T) {
	tests := map[string]VisKind{"plot": KindPlot, "Plots": KindPlot, "m": KindMail, "mail": KindMail}
	for in, want := range tests {
		got, err := ParseVisKind(in)
		if err != nil || got != want {
			t.Errorf("ParseVisKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseVisKind("doc"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestPaths(t *testing.T) {
	if got := VisPath(KindPlot, "a", "shared", "+acme~team"); got != "vis/plots/a/shared/+acme~team" {
		t.Errorf("unexpected vis path %q", got)
	}
	if got := InvitePath("+acme~team", "accept"); got != "admin/invites/+acme~team/accept" {
		t.Errorf("unexpected invite path %q", got)
	}
	if KindMail.Title() != "Mail" {
		t.Errorf("unexpected title %q", KindMail.Title())
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
