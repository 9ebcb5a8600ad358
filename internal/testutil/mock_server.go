// Package testutil provides an in-process novem API for tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// Request is a call received by the MockServer.
type Request struct {
	Method   string
	Path     string
	Body     string
	Username string
	Token    string
}

// MockServer serves canned responses keyed by method and path, and records
// every request it receives. Unregistered routes answer 404 with a novem
// error body.
type MockServer struct {
	server   *httptest.Server
	handlers map[string]http.HandlerFunc
	requests []Request
	mu       sync.RWMutex
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		handlers: make(map[string]http.HandlerFunc),
	}

	ms.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		user, token, _ := r.BasicAuth()
		key := r.Method + " " + r.URL.Path

		ms.mu.Lock()
		ms.requests = append(ms.requests, Request{
			Method:   r.Method,
			Path:     r.URL.Path,
			Body:     string(body),
			Username: user,
			Token:    token,
		})
		handler, ok := ms.handlers[key]
		ms.mu.Unlock()

		if ok {
			handler(w, r)
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"status":  "error",
			"message": r.URL.Path,
		})
	}))

	return ms
}

// URL returns the API root of the server, with a trailing slash.
func (ms *MockServer) URL() string {
	return ms.server.URL + "/"
}

// Close shuts down the server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// Handle registers a custom handler for a method+path.
func (ms *MockServer) Handle(method, path string, handler http.HandlerFunc) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.handlers[method+" "+path] = handler
}

// HandleText registers a handler that returns body as text with status 200.
func (ms *MockServer) HandleText(method, path, body string) {
	ms.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, body)
	})
}

// HandleJSON registers a handler that returns JSON with the given status.
func (ms *MockServer) HandleJSON(method, path string, status int, response interface{}) {
	ms.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, response)
	})
}

// HandleOK registers an empty 200 response, as the service sends for writes.
func (ms *MockServer) HandleOK(method, path string) {
	ms.HandleJSON(method, path, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// HandleError registers a handler that returns a novem API error.
func (ms *MockServer) HandleError(method, path string, status int, message string) {
	ms.HandleJSON(method, path, status, map[string]interface{}{
		"status":  "error",
		"message": message,
	})
}

// HandleRateLimit registers a 429 response with Retry-After header.
func (ms *MockServer) HandleRateLimit(method, path string, retryAfter int) {
	ms.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"status":  "error",
			"message": "Rate limited",
		})
	})
}

// Requests returns a copy of every request received so far.
func (ms *MockServer) Requests() []Request {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]Request, len(ms.requests))
	copy(out, ms.requests)
	return out
}

// LastRequest returns the most recent request matching method and path.
func (ms *MockServer) LastRequest(method, path string) (Request, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for i := len(ms.requests) - 1; i >= 0; i-- {
		if r := ms.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}

// Reset clears all registered handlers and recorded requests.
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.handlers = make(map[string]http.HandlerFunc)
	ms.requests = nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
