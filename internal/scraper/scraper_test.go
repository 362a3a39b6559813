package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		statusCode  int
		wantError   bool
		wantStatus  int
	}{
		{
			name:        "successful fetch",
			htmlContent: string(tableHTML(rowHTML(scenarioCells...))),
			statusCode:  http.StatusOK,
		},
		{
			name:        "other 2xx status",
			htmlContent: "<html></html>",
			statusCode:  http.StatusNonAuthoritativeInfo,
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			wantError:  true,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			wantError:  true,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("Method = %s, want GET", r.Method)
				}
				if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "class-schedule") {
					t.Errorf("User-Agent = %q, should contain 'class-schedule'", ua)
				}

				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			body, err := New(server.URL).Fetch(context.Background())

			if !tt.wantError {
				if err != nil {
					t.Fatalf("Fetch() unexpected error: %v", err)
				}
				if string(body) != tt.htmlContent {
					t.Errorf("Fetch() body = %q, want %q", body, tt.htmlContent)
				}
				return
			}

			var ne *NetworkError
			if !errors.As(err, &ne) {
				t.Fatalf("Fetch() error = %v, want *NetworkError", err)
			}
			if ne.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", ne.StatusCode, tt.wantStatus)
			}
			if ne.URL != server.URL {
				t.Errorf("URL = %q, want %q", ne.URL, server.URL)
			}
			if body != nil {
				t.Error("Fetch() returned a body alongside an error")
			}
		})
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(url).Fetch(context.Background())

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("Fetch() error = %v, want *NetworkError", err)
	}
	if ne.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for a transport failure", ne.StatusCode)
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := New(server.URL, WithTimeout(50*time.Millisecond)).Fetch(context.Background())

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("Fetch() error = %v, want *NetworkError", err)
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL).Fetch(ctx)

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("Fetch() error = %v, want *NetworkError", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, should wrap context.Canceled", err)
	}
}

func TestFetch_CustomUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	if _, err := New(server.URL, WithUserAgent("schedule-bot/2.0")).Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != "schedule-bot/2.0" {
		t.Errorf("User-Agent = %q, want schedule-bot/2.0", got)
	}
}

func TestFetchEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<table id="spring">` + headerRow + rowHTML(scenarioCells...) + `</table>`))
	}))
	defer server.Close()

	entries, err := New(server.URL, WithTable("spring")).FetchEntries(context.Background())
	if err != nil {
		t.Fatalf("FetchEntries() error = %v", err)
	}
	if len(entries) != 1 || entries[0].InstructorEmail != "jane@sjsu.edu" {
		t.Errorf("FetchEntries() = %+v", entries)
	}
}

func TestFetchEntries_NetworkErrorSkipsParse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write(tableHTML(rowHTML(scenarioCells...)))
	}))
	defer server.Close()

	entries, err := New(server.URL).FetchEntries(context.Background())

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("FetchEntries() error = %v, want *NetworkError", err)
	}
	if entries != nil {
		t.Errorf("FetchEntries() returned %d entries on failure", len(entries))
	}
}

func TestNew(t *testing.T) {
	s := New("https://example.edu/schedule.php")

	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.client == nil {
		t.Error("scraper client is nil")
	}
	if s.client.Timeout != DefaultTimeout {
		t.Errorf("client timeout = %v, want %v", s.client.Timeout, DefaultTimeout)
	}
	if s.URL() != "https://example.edu/schedule.php" {
		t.Errorf("URL() = %q", s.URL())
	}
	if s.tableID != DefaultTableID {
		t.Errorf("tableID = %q, want %q", s.tableID, DefaultTableID)
	}
	if s.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %q, want %q", s.userAgent, DefaultUserAgent)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "network status",
			err:  &NetworkError{URL: "https://example.edu", StatusCode: 503},
			want: "fetching https://example.edu: unexpected status code 503",
		},
		{
			name: "network transport",
			err:  &NetworkError{URL: "https://example.edu", Err: errors.New("connection refused")},
			want: "fetching https://example.edu: connection refused",
		},
		{
			name: "not found",
			err:  &NotFoundError{Selector: "table#classSchedule"},
			want: "element not found: table#classSchedule",
		},
		{
			name: "structure",
			err:  &StructureError{Row: 4, Cells: 13, Want: 14},
			want: "row 4: expected 14 cells, found 13",
		},
		{
			name: "parse",
			err:  &ParseError{Row: 2, Column: 5, Field: "units", Value: "three", Err: errors.New("not a number")},
			want: `row 2, column 5 (units): cannot parse "three": not a number`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRowOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"structure", &StructureError{Row: 3}, 3},
		{"parse", &ParseError{Row: 5, Err: errors.New("x")}, 5},
		{"row", &RowError{Row: 7, Err: errors.New("invalid")}, 7},
		{"wrapped", fmt.Errorf("parse: %w", &StructureError{Row: 9}), 9},
		{"network", &NetworkError{URL: "u", StatusCode: 500}, 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RowOf(tt.err); got != tt.want {
				t.Errorf("RowOf() = %d, want %d", got, tt.want)
			}
		})
	}
}
