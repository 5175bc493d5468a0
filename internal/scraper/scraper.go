// Package scraper loads the page a scan runs against.
//
// A source is an http(s) URL, a file path, or "-" for standard input. Fetches
// share a semaphore and a per-host delay so that a page with many frames does
// not hammer a single server. Frames are loaded one level deep: srcdoc frames
// are parsed inline, src frames are fetched and resolved against the parent.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/tesh254/tabdown/internal/dom"
	"github.com/tesh254/tabdown/internal/logger"
)

// ErrNotHTML is returned for responses that are not HTML documents.
var ErrNotHTML = errors.New("not HTML content")

// Config holds configuration options for the scraper.
type Config struct {
	// UserAgent is the User-Agent header value sent with HTTP requests
	UserAgent string
	// Timeout specifies the maximum duration to wait for an HTTP request to complete
	Timeout time.Duration
	// RequestDelay specifies the minimum time between requests to the same host
	RequestDelay time.Duration
	// MaxConcurrent limits the total number of concurrent HTTP requests
	MaxConcurrent int
	// Frames enables loading the documents of the page's iframes
	Frames bool
}

// DefaultConfig returns a default configuration with reasonable values.
func DefaultConfig() *Config {
	return &Config{
		UserAgent:     "Mozilla/5.0 (compatible; tabdown/1.0)",
		Timeout:       10 * time.Second,
		RequestDelay:  250 * time.Millisecond,
		MaxConcurrent: 2,
		Frames:        true,
	}
}

// Scraper fetches and parses pages.
type Scraper struct {
	// Config contains all the configuration options for this scraper
	Config *Config
	// Stdin is read for the "-" source, os.Stdin when nil
	Stdin io.Reader

	client *http.Client
	log    *logger.Logger

	// lastRequestTime tracks the last request time per host for rate limiting
	lastRequestTime map[string]time.Time
	// requestSem is a semaphore channel to limit concurrent requests
	requestSem chan struct{}
	// mutex protects access to the lastRequestTime map
	mutex sync.Mutex
}

// New creates a scraper. A nil config uses DefaultConfig, a nil logger
// discards output.
func New(config *Config, log *logger.Logger) *Scraper {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 1
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Scraper{
		Config:          config,
		client:          &http.Client{Timeout: config.Timeout},
		log:             log,
		lastRequestTime: make(map[string]time.Time),
		requestSem:      make(chan struct{}, config.MaxConcurrent),
	}
}

// IsRemote reports whether source is fetched over HTTP.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads and parses source, then loads its frames when enabled.
func (s *Scraper) Load(ctx context.Context, source string) (*dom.Document, error) {
	var (
		doc *dom.Document
		err error
	)
	switch {
	case source == "-":
		in := s.Stdin
		if in == nil {
			in = os.Stdin
		}
		doc, err = dom.Parse(in, "")
	case IsRemote(source):
		doc, err = s.fetchDocument(ctx, source)
	default:
		doc, err = loadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", source, err)
	}

	if s.Config.Frames {
		doc.Frames = s.loadFrames(ctx, doc)
	}

	s.log.PageLoaded(source, doc.Title(), len(doc.Frames))
	return doc, nil
}

// loadFile parses a local file. Its file:// URL is the base for relative links.
func loadFile(path string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return dom.Parse(f, u.String())
}

// loadFrames loads the sub-document of every iframe of doc. Frames that fail
// to load are logged and left out; the order of the rest is kept.
func (s *Scraper) loadFrames(ctx context.Context, doc *dom.Document) []*dom.Document {
	frames := goquery.NewDocumentFromNode(doc.Root).Find("iframe")
	if frames.Length() == 0 {
		return nil
	}

	loaded := make([]*dom.Document, frames.Length())
	var wg sync.WaitGroup
	frames.Each(func(i int, frame *goquery.Selection) {
		if srcdoc, ok := frame.Attr("srcdoc"); ok {
			parent := ""
			if doc.URL != nil {
				parent = doc.URL.String()
			}
			sub, err := dom.Parse(strings.NewReader(srcdoc), parent)
			if err != nil {
				s.log.FrameSkipped("srcdoc", err)
				return
			}
			loaded[i] = sub
			return
		}

		src, ok := frame.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return
		}
		target := doc.Resolve(src)
		if !IsRemote(target) {
			s.log.FrameSkipped(target, errors.New("unsupported frame source"))
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			sub, err := s.fetchDocument(ctx, target)
			if err != nil {
				s.log.FrameSkipped(target, err)
				return
			}
			loaded[i] = sub
		}()
	})
	wg.Wait()

	var out []*dom.Document
	for _, sub := range loaded {
		if sub != nil {
			out = append(out, sub)
		}
	}
	return out
}

// fetchDocument fetches urlStr and parses it against its final URL.
func (s *Scraper) fetchDocument(ctx context.Context, urlStr string) (*dom.Document, error) {
	body, final, err := s.fetchURL(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	return dom.Parse(bytes.NewReader(body), final)
}

// waitForRateLimit acquires a request slot and waits out the per-host delay.
func (s *Scraper) waitForRateLimit(ctx context.Context, host string) error {
	select {
	case s.requestSem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mutex.Lock()
	lastReq, exists := s.lastRequestTime[host]
	if exists {
		if wait := s.Config.RequestDelay - time.Since(lastReq); wait > 0 {
			// reserve the slot before sleeping so concurrent callers queue up behind it
			s.lastRequestTime[host] = lastReq.Add(s.Config.RequestDelay)
			s.mutex.Unlock()
			select {
			case <-time.After(wait):
				return nil
			case <-ctx.Done():
				<-s.requestSem
				return ctx.Err()
			}
		}
	}
	s.lastRequestTime[host] = time.Now()
	s.mutex.Unlock()
	return nil
}

// fetchURL returns the body of an HTML response and the URL it was served
// from after redirects.
func (s *Scraper) fetchURL(ctx context.Context, urlStr string) ([]byte, string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}

	if err := s.waitForRateLimit(ctx, parsedURL.Host); err != nil {
		return nil, "", err
	}
	defer func() { <-s.requestSem }()

	ctx, cancel := context.WithTimeout(ctx, s.Config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml") {
		return nil, "", errors.Wrap(ErrNotHTML, contentType)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read body: %w", err)
	}
	return body, resp.Request.URL.String(), nil
}

// MainContent returns the first main or article element, or the element with
// id "content" or "main", falling back to the body.
func MainContent(doc *dom.Document) *html.Node {
	var mainNode *html.Node
	dom.Walk(doc.Root, func(n *html.Node) bool {
		if mainNode != nil {
			return false
		}
		switch dom.Tag(n) {
		case "main", "article":
			mainNode = n
			return false
		}
		if id := dom.Attr(n, "id"); id == "content" || id == "main" {
			mainNode = n
			return false
		}
		return true
	})

	if mainNode == nil {
		return doc.Body()
	}
	return mainNode
}
