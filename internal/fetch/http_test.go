package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/parget/parget/internal/utils"
)

func newHTTPSource() *HTTPSource {
	return NewHTTPSource(utils.NewClient(utils.HTTPClientConfig{}))
}

func TestProbeReportsSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("probe used method %s", r.Method)
		}
		w.Header().Set("Content-Length", "12345")
		w.Header().Set("Accept-Ranges", "bytes")
	}))
	defer server.Close()

	size, err := newHTTPSource().Probe(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if size != 12345 {
		t.Errorf("size %d, want 12345", size)
	}
}

func TestProbeMissingContentLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.(http.Flusher).Flush()
	}))
	defer server.Close()

	_, err := newHTTPSource().Probe(context.Background(), server.URL)
	if !errors.Is(err, ErrMissingContentLength) {
		t.Fatalf("expected ErrMissingContentLength, got %v", err)
	}
}

func TestProbeRetriesTransientFailures(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Length", "100")
	}))
	defer server.Close()

	size, err := newHTTPSource().Probe(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Probe after transient failures: %v", err)
	}
	if size != 100 {
		t.Errorf("size %d, want 100", size)
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestProbeDoesNotRetryClientErrors(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if _, err := newHTTPSource().Probe(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 403 probe")
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1", got)
	}
}

func TestOpenRangeReturnsExactWindow(t *testing.T) {
	data := []byte("0123456789abcdefghij")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimPrefix(r.Header.Get("Range"), "bytes=")
		parts := strings.Split(header, "-")
		start, _ := strconv.Atoi(parts[0])
		end, _ := strconv.Atoi(parts[1])
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, len(data)))
		w.Header().Set("Content-Length", strconv.Itoa(end-start+1))
		w.WriteHeader(http.StatusPartialContent)
		w.Write(data[start : end+1])
	}))
	defer server.Close()

	body, err := newHTTPSource().OpenRange(context.Background(), server.URL, 10, 19)
	if err != nil {
		t.Fatalf("OpenRange: %v", err)
	}
	defer body.Close()
	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(got) != "abcdefghij" {
		t.Errorf("got %q, want %q", got, "abcdefghij")
	}
}

func TestOpenRangeRejectsFullContent(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte("entire body, ranges ignored"))
	}))
	defer server.Close()

	if _, err := newHTTPSource().OpenRange(context.Background(), server.URL, 0, 9); err == nil {
		t.Fatal("expected error for 200 response to range request")
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1", got)
	}
}
