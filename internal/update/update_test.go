package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/revolut-cli/revolut-cli/internal/debug"
)

// setupTestServer creates a test server and overrides GitHubReleasesURL for
// the duration of the test.
func setupTestServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	originalURL := GitHubReleasesURL
	GitHubReleasesURL = server.URL
	t.Cleanup(func() {
		server.Close()
		GitHubReleasesURL = originalURL
	})
}

func serveRelease(t *testing.T, release Release) {
	t.Helper()
	setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(release)
	})
}

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1.0.0", "v1.0.0"},
		{"v1.0.0", "v1.0.0"},
		{"v10.20.30", "v10.20.30"},
		{"", "v"},
	}

	for _, tt := range tests {
		if got := normalizeVersion(tt.input); got != tt.expected {
			t.Errorf("normalizeVersion(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCheckForUpdate_SkipsUnversionedBuilds(t *testing.T) {
	for _, v := range []string{"dev", ""} {
		if result := CheckForUpdate(context.Background(), v); result != nil {
			t.Errorf("CheckForUpdate(%q) = %+v, want nil", v, result)
		}
	}
}

func TestCheckForUpdate_UpdateAvailable(t *testing.T) {
	setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/vnd.github.v3+json" {
			t.Error("Expected GitHub API accept header")
		}
		if r.Header.Get("User-Agent") != "revolut-cli/1.0.0" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		_ = json.NewEncoder(w).Encode(Release{
			TagName: "v2.0.0",
			HTMLURL: "https://github.com/revolut-cli/revolut-cli/releases/tag/v2.0.0",
		})
	})

	result := CheckForUpdate(context.Background(), "1.0.0")
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if !result.UpdateAvailable {
		t.Error("Expected update to be available")
	}
	if result.LatestVersion != "2.0.0" {
		t.Errorf("Expected latest version 2.0.0, got %s", result.LatestVersion)
	}
	if result.UpdateURL != "https://github.com/revolut-cli/revolut-cli/releases/tag/v2.0.0" {
		t.Errorf("Unexpected update URL: %s", result.UpdateURL)
	}
}

func TestCheckForUpdate_Comparisons(t *testing.T) {
	tests := []struct {
		name    string
		current string
		release Release
		want    bool
	}{
		{"same version", "1.0.0", Release{TagName: "v1.0.0"}, false},
		{"current newer", "2.0.0", Release{TagName: "v1.9.9"}, false},
		{"patch update", "1.0.0", Release{TagName: "v1.0.1"}, true},
		{"prefixed current", "v1.0.0", Release{TagName: "1.1.0"}, true},
		{"prerelease ignored", "1.0.0", Release{TagName: "v2.0.0-rc.1", Prerelease: true}, false},
		{"invalid current", "banana", Release{TagName: "v2.0.0"}, false},
		{"invalid latest", "1.0.0", Release{TagName: "latest"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serveRelease(t, tt.release)
			result := CheckForUpdate(context.Background(), tt.current)
			if result == nil {
				t.Fatal("Expected result, got nil")
			}
			if result.UpdateAvailable != tt.want {
				t.Errorf("UpdateAvailable = %v, want %v", result.UpdateAvailable, tt.want)
			}
		})
	}
}

func TestCheckForUpdate_FailuresReturnNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"rate limited", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("{not json")) }},
		{"empty tag", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"tag_name": ""}`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServer(t, tt.handler)
			if result := CheckForUpdate(context.Background(), "1.0.0"); result != nil {
				t.Errorf("Expected nil, got %+v", result)
			}
		})
	}
}

func TestCheckForUpdate_ContextCanceled(t *testing.T) {
	serveRelease(t, Release{TagName: "v2.0.0"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if result := CheckForUpdate(ctx, "1.0.0"); result != nil {
		t.Errorf("Expected nil for canceled context, got %+v", result)
	}
}

func TestChecker_ReturnsFailures(t *testing.T) {
	if _, err := (Checker{}).Check(context.Background(), "dev"); !errors.Is(err, ErrUnversioned) {
		t.Errorf("Check(dev) error = %v, want ErrUnversioned", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := Checker{ReleasesURL: server.URL}.Check(context.Background(), "1.0.0")
	if err == nil || !strings.Contains(err.Error(), "status 403") {
		t.Errorf("Check() error = %v, want status 403", err)
	}
}

func TestChecker_UsesConfiguredClient(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "revolut-cli-test" {
			t.Errorf("User-Agent = %q", got)
		}
		_ = json.NewEncoder(w).Encode(Release{TagName: "v1.4.0", HTMLURL: "https://example.test/v1.4.0"})
	}))
	defer server.Close()

	checker := Checker{ReleasesURL: server.URL, HTTP: server.Client(), UserAgent: "revolut-cli-test"}
	result, err := checker.Check(context.Background(), "1.3.9")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !result.UpdateAvailable || result.LatestVersion != "1.4.0" {
		t.Errorf("Check() = %+v", result)
	}
}

func TestCheckForUpdate_LogsFailureWhenDebugging(t *testing.T) {
	setupTestServer(t, func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) })

	var buf bytes.Buffer
	prev := slog.Default()
	debug.SetupLoggerTo(&buf, true)
	t.Cleanup(func() { slog.SetDefault(prev) })

	if result := CheckForUpdate(debug.WithDebug(context.Background(), true), "1.0.0"); result != nil {
		t.Errorf("Expected nil, got %+v", result)
	}
	if !strings.Contains(buf.String(), "update check failed") {
		t.Errorf("debug log = %q", buf.String())
	}

	buf.Reset()
	CheckForUpdate(context.Background(), "1.0.0")
	if buf.Len() != 0 {
		t.Errorf("unexpected log without debug: %q", buf.String())
	}
}
