package debug

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWithDebug(t *testing.T) {
	ctx := WithDebug(context.Background(), true)
	if !IsDebug(ctx) {
		t.Error("Expected IsDebug to return true")
	}

	ctx = WithDebug(ctx, false)
	if IsDebug(ctx) {
		t.Error("Expected IsDebug to return false")
	}

	if IsDebug(context.Background()) {
		t.Error("Expected IsDebug to return false for context without debug value")
	}
}

func TestDebugTransport_RedactsBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"id":"sales"}]`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	client := &http.Client{Transport: NewDebugTransport(nil, &buf)}

	req, err := http.NewRequest(http.MethodGet, server.URL+"/u/alice/plot/", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.SetBasicAuth("", "nbt-secret-token")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	output := buf.String()
	if !strings.Contains(output, "--> GET") {
		t.Error("Expected request method and URL in output")
	}
	if !strings.Contains(output, "Authorization: Basic [redacted]") {
		t.Errorf("Expected redacted authorization header, got:\n%s", output)
	}
	if strings.Contains(output, "Om5idC1zZWNyZXQtdG9rZW4") {
		t.Error("Credentials leaked into debug output")
	}
	if !strings.Contains(output, "<-- 200 OK") {
		t.Errorf("Expected response status in output, got:\n%s", output)
	}
	if string(body) != `[{"id":"sales"}]` {
		t.Errorf("Response body not restored for caller: %q", body)
	}
}

func TestDebugTransport_RedactsTokenRequestBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var buf bytes.Buffer
	client := &http.Client{Transport: NewDebugTransport(nil, &buf)}

	resp, err := client.Post(server.URL+"/v1/token", "application/json", strings.NewReader(`{"password":"hunter2"}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	_ = resp.Body.Close()

	if strings.Contains(buf.String(), "hunter2") {
		t.Error("Password leaked into debug output")
	}
}

func TestClip(t *testing.T) {
	if got := clip("abcdef", 3); got != "abc... [truncated]" {
		t.Errorf("unexpected clip result %q", got)
	}
	if got := clip("abc", 3); got != "abc" {
		t.Errorf("unexpected clip result %q", got)
	}
}
