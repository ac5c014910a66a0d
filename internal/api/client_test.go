package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, testLogger())
	c.SetToken("tok-123")
	if _, err := c.Tasks(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got.Get("Authorization") != "Bearer tok-123" {
		t.Errorf("Authorization = %q", got.Get("Authorization"))
	}
	if got.Get("X-Request-Id") == "" {
		t.Error("X-Request-Id missing")
	}
	if got.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", got.Get("Accept"))
	}
}

func TestUnauthorizedMapsToErrUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, testLogger())
	_, err := c.Tasks(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatal("want *Error in chain")
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "token expired" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestNonAuthErrorIsNotUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, testLogger())
	_, err := c.Tasks(context.Background())
	if err == nil {
		t.Fatal("want error")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("500 must not map to ErrUnauthorized")
	}
}

func TestServerMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"task not found"}`, "task not found"},
		{"error field", `{"error":"bad request"}`, "bad request"},
		{"bare string", "plain text failure\n", "plain text failure"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serverMessage([]byte(tt.body)); got != tt.want {
				t.Errorf("serverMessage(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestDeletePermanentFlag(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.String())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := NewClient(server.URL, testLogger())
	if err := c.DeleteTask(context.Background(), 5, false); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteTask(context.Background(), 5, true); err != nil {
		t.Fatal(err)
	}
	if paths[0] != "/api/tasks/5" {
		t.Errorf("soft delete path = %q", paths[0])
	}
	if paths[1] != "/api/tasks/5?permanent=true" {
		t.Errorf("permanent delete path = %q", paths[1])
	}
}
