package jd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFetchFromFile(t *testing.T) {
	// Create a test file.
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := "This is a test job description."

	err := os.WriteFile(testFile, []byte(testContent+"\n"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	content, err := fetchFromFile(testFile)
	if err != nil {
		t.Fatalf("Failed to fetch from file: %v", err)
	}

	if content != testContent {
		t.Errorf("Expected content '%s', got '%s'", testContent, content)
	}
}

func TestFetchFromFileNonexistent(t *testing.T) {
	_, err := fetchFromFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error fetching nonexistent file, got nil")
	}
}

func TestFetchFromFileEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	emptyFile := filepath.Join(tmpDir, "empty.txt")

	err := os.WriteFile(emptyFile, []byte("  \n"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err = fetchFromFile(emptyFile)
	if err == nil {
		t.Error("Expected error fetching empty file, got nil")
	}
}

func TestFetchFromURL(t *testing.T) {
	testContent := "<html><body><h1>Job Title</h1><p>Job description here.</p></body></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "resume-studio/1.0" {
			t.Errorf("Expected resume-studio user agent, got %s", r.Header.Get("User-Agent"))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testContent))
	}))
	defer server.Close()

	html, err := fetchFromURL(context.Background(), server.URL, DefaultTimeout)
	if err != nil {
		t.Fatalf("Failed to fetch from URL: %v", err)
	}

	if html != testContent {
		t.Errorf("Expected raw HTML, got '%s'", html)
	}
}

func TestFetchFromURL404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := fetchFromURL(context.Background(), server.URL, DefaultTimeout)
	if err == nil {
		t.Error("Expected error for 404 response, got nil")
	}
}

func TestFetchFromURLTimeout(t *testing.T) {
	// Create a server that takes too long.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		_, _ = w.Write([]byte("too slow"))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := fetchFromURL(ctx, server.URL, DefaultTimeout)
	if err == nil {
		t.Error("Expected timeout error, got nil")
	}
}

func TestFetchWithContext(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := "Test job description"

	err := os.WriteFile(testFile, []byte(testContent), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	content, err := FetchWithContext(context.Background(), testFile, Options{})
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}

	if content != testContent {
		t.Errorf("Expected '%s', got '%s'", testContent, content)
	}
}

func TestFetchWithContextURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><nav>Jobs Home</nav><main><h1>Staff Engineer</h1><p>Build things.</p></main></body></html>`))
	}))
	defer server.Close()

	content, err := FetchWithContext(context.Background(), server.URL, Options{})
	if err != nil {
		t.Fatalf("Failed to fetch from URL: %v", err)
	}

	if content != "Staff Engineer\nBuild things." {
		t.Errorf("Expected posting text, got '%s'", content)
	}
}

func TestFetchWithContextURLEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>render()</script></body></html>`))
	}))
	defer server.Close()

	_, err := FetchWithContext(context.Background(), server.URL, Options{})
	if err == nil {
		t.Error("Expected error for a page with no text, got nil")
	}
}

func TestFetch(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")

	err := os.WriteFile(testFile, []byte("Test"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	content, err := Fetch(testFile)
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}

	if content != "Test" {
		t.Errorf("Expected 'Test', got '%s'", content)
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple tags",
			input:    "<p>Hello <strong>world</strong></p>",
			expected: "Hello world",
		},
		{
			name:     "script tags",
			input:    "<p>Text</p><script>alert('hi')</script><p>More</p>",
			expected: "Text\nMore",
		},
		{
			name:     "style tags",
			input:    "<style>.class{color:red}</style><p>Content</p>",
			expected: "Content",
		},
		{
			name:     "no HTML",
			input:    "Plain text",
			expected: "Plain text",
		},
		{
			name:     "posting container wins",
			input:    `<html><body><nav>Menu</nav><div class="job-description"><h2>About</h2><ul><li>Go</li><li>Rust</li></ul></div><footer>Legal</footer></body></html>`,
			expected: "About\nGo\nRust",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExtractText(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestCleanWhitespace(t *testing.T) {
	input := "  Title  \n\n\n   Line   with   gaps \n\t\n last"
	expected := "Title\n\nLine with gaps\n\nlast"

	if got := cleanWhitespace(input); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestClip(t *testing.T) {
	clipped, truncated := Clip("short", 10)
	if truncated || clipped != "short" {
		t.Errorf("Expected untouched content, got %q (truncated=%v)", clipped, truncated)
	}

	long := strings.Repeat("é", 12)
	clipped, truncated = Clip(long, 10)
	if !truncated {
		t.Error("Expected content to be truncated")
	}
	if clipped != strings.Repeat("é", 10) {
		t.Errorf("Expected 10 characters, got %q", clipped)
	}
}
