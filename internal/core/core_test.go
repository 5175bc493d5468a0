package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesh254/tabdown/internal/api"
	"github.com/tesh254/tabdown/internal/logger"
	"github.com/tesh254/tabdown/internal/scraper"
)

const site = `<html><head><title>Team</title></head><body>
<h2>Members</h2>
<table>
<tr><th>Name</th><th>Role</th></tr>
<tr><td>Ada</td><td>Lead</td></tr>
<tr><td>Lin</td><td>Ops</td></tr>
</table>
</body></html>`

func newSession(t *testing.T) (*mcp.ClientSession, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, site)
	}))
	t.Cleanup(srv.Close)

	c := New(api.NewAPI(scraper.New(nil, nil), nil, nil), nil, "test")
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()
	go func() {
		if err := c.Server().Run(ctx, serverTransport); err != nil {
			t.Logf("server stopped: %v", err)
		}
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session, srv.URL
}

func callText(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestScanPage(t *testing.T) {
	session, url := newSession(t)

	text, isErr := callText(t, session, "scan_page", map[string]any{"source": url})
	require.False(t, isErr, text)

	var res api.ScanResult
	require.NoError(t, json.Unmarshal([]byte(text), &res))
	assert.Equal(t, "Team", res.Title)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "Members", res.Candidates[0].Title)
	assert.Equal(t, 3, res.Candidates[0].Size)
}

func TestExtractCandidate(t *testing.T) {
	session, url := newSession(t)

	text, isErr := callText(t, session, "extract_candidate", map[string]any{"source": url, "index": 0})
	require.False(t, isErr, text)

	var out ExportOutput
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "Members - Team.md", out.Filename)
	assert.Equal(t, "text/markdown", out.MIME)
	assert.Equal(t, "Name|Role\n---|---\nAda|Lead\nLin|Ops\n", out.Markdown)
	assert.Equal(t, 3, out.Rows)
}

func TestExtractCandidate_BadIndex(t *testing.T) {
	session, url := newSession(t)

	text, isErr := callText(t, session, "extract_candidate", map[string]any{"source": url, "index": 4})
	assert.True(t, isErr)
	assert.Contains(t, text, "no such candidate")
}

func TestListExports_ArchiveDisabled(t *testing.T) {
	session, _ := newSession(t)

	text, isErr := callText(t, session, "list_exports", map[string]any{})
	assert.True(t, isErr)
	assert.Contains(t, text, "archive is disabled")
}

func TestTools_RejectLocalSources(t *testing.T) {
	session, _ := newSession(t)

	secret := filepath.Join(t.TempDir(), "secret.html")
	require.NoError(t, os.WriteFile(secret, []byte(`<main>TOKEN=abc123</main>`), 0o600))

	for _, source := range []string{secret, "-", "file://" + secret} {
		for _, tool := range []string{"scan_page", "extract_candidate", "page_markdown"} {
			t.Run(tool+" "+source, func(t *testing.T) {
				args := map[string]any{"source": source}
				if tool == "extract_candidate" {
					args["index"] = 0
				}
				text, isErr := callText(t, session, tool, args)
				assert.True(t, isErr)
				assert.Contains(t, text, "source must be an http or https URL")
				assert.NotContains(t, text, "abc123")
			})
		}
	}
}

func TestLoggingHandler(t *testing.T) {
	var buf bytes.Buffer
	h := loggingHandler(logger.New(&buf), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "incoming request")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "size=15")
	assert.Contains(t, out, "request_id=")
}
