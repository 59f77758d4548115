package jd

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 30 * time.Second

// Options control how a job description URL is retrieved.
type Options struct {
	// Browser renders the page in headless Chrome, for boards that build the posting
	// with JavaScript.
	Browser bool
	Timeout time.Duration
}

// noiseSelectors are removed before any text is read.
const noiseSelectors = "nav, footer, header, script, style, noscript, iframe, form, .cookie-banner, .popup, .sidebar"

// postingSelectors locate the posting body on common job boards, most specific first.
//
//nolint:gochecknoglobals // ordered selector table
var postingSelectors = []string{
	".job-description",
	"#job-description",
	"[data-testid='job-description']",
	".posting-content",
	".job-details",
	".job-content",
	"#content",
	"main",
	"article",
}

// Fetch retrieves job description from file or URL.
func Fetch(input string) (content string, err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	content, err = FetchWithContext(ctx, input, Options{})
	return content, err
}

// FetchWithContext retrieves job description with context.
func FetchWithContext(ctx context.Context, input string, opts Options) (content string, err error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	parsedURL, urlErr := url.Parse(input)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		var html string
		if opts.Browser {
			html, err = fetchWithBrowser(ctx, input, opts.Timeout)
		} else {
			html, err = fetchFromURL(ctx, input, opts.Timeout)
		}
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch JD from URL: %s", input)
			return content, err
		}

		content, err = ExtractText(html)
		if err != nil {
			err = errors.Wrapf(err, "failed to extract JD from URL: %s", input)
			return content, err
		}
		return content, err
	}

	content, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch JD from file: %s", input)
		return content, err
	}

	return content, err
}

// fetchFromFile reads job description from a file.
func fetchFromFile(path string) (content string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return content, err
	}

	content = strings.TrimSpace(string(data))
	if content == "" {
		err = errors.New("file is empty")
		return content, err
	}

	return content, err
}

// fetchFromURL retrieves the raw HTML of a job posting.
func fetchFromURL(ctx context.Context, urlStr string, timeout time.Duration) (html string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return html, err
	}

	req.Header.Set("User-Agent", "resume-studio/1.0")

	client := &http.Client{
		Timeout: timeout,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return html, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return html, err
	}

	var bodyBytes []byte
	bodyBytes, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return html, err
	}

	html = string(bodyBytes)
	return html, err
}

// fetchWithBrowser renders the page in headless Chrome and returns the resulting HTML.
// Chrome or Chromium must be installed.
func fetchWithBrowser(ctx context.Context, urlStr string, timeout time.Duration) (html string, err error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	err = chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		// Boards typically hydrate the posting shortly after load.
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		err = errors.Wrap(err, "browser rendering failed")
		return html, err
	}

	return html, err
}

// ExtractText returns the readable text of a job posting page. Navigation and other
// page chrome are dropped, and the first matching posting container wins over the
// whole body.
func ExtractText(html string) (text string, err error) {
	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		err = errors.Wrap(err, "failed to parse HTML")
		return text, err
	}

	doc.Find(noiseSelectors).Remove()

	content := doc.Find("body")
	for _, selector := range postingSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}

	// Block elements end lines so list items stay on their own line.
	content.Find("p, li, br, h1, h2, h3, h4, h5, h6, div, tr").AfterHtml("\n")

	text = cleanWhitespace(content.Text())
	if text == "" {
		err = errors.New("fetched content is empty after processing")
		return text, err
	}

	return text, err
}

// cleanWhitespace trims every line, collapses runs of spaces and drops repeated blank
// lines.
func cleanWhitespace(raw string) (text string) {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(cleaned) > 0 {
				cleaned = append(cleaned, "")
			}
			blank = true
			continue
		}
		blank = false
		cleaned = append(cleaned, line)
	}

	text = strings.TrimSpace(strings.Join(cleaned, "\n"))
	return text
}

// Clip shortens content to at most limit characters.
func Clip(content string, limit int) (clipped string, truncated bool) {
	if limit <= 0 || utf8.RuneCountInString(content) <= limit {
		clipped = content
		return clipped, truncated
	}

	runes := []rune(content)
	clipped = strings.TrimSpace(string(runes[:limit]))
	truncated = true
	return clipped, truncated
}
