package core

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"

	"github.com/tesh254/tabdown/internal/api"
	"github.com/tesh254/tabdown/internal/logger"
	"github.com/tesh254/tabdown/internal/scraper"
)

// ErrNotURL is returned by tools given a source that is not an http(s) URL.
// Files and stdin are only read by the CLI.
var ErrNotURL = errors.New("source must be an http or https URL")

// Core exposes the API as MCP tools.
type Core struct {
	api     *api.API
	log     *logger.Logger
	version string
}

// ScanPageArgs are the arguments of scan_page and page_markdown.
type ScanPageArgs struct {
	Source string `json:"source" jsonschema:"URL of the page to scan"`
}

// ExtractCandidateArgs are the arguments of extract_candidate.
type ExtractCandidateArgs struct {
	Source string `json:"source" jsonschema:"URL of the page"`
	Index  int    `json:"index" jsonschema:"candidate index returned by scan_page"`
}

// ListExportsArgs paginates list_exports. A zero Limit returns every entry.
type ListExportsArgs struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ExportOutput is the result of extract_candidate.
type ExportOutput struct {
	Filename string `json:"filename"`
	MIME     string `json:"mime"`
	Markdown string `json:"markdown"`
	Rows     int    `json:"rows,omitempty"`
	Items    int    `json:"items,omitempty"`
}

// EntryOutput is one archived export in list_exports.
type EntryOutput struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Filename  string    `json:"filename"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates the MCP front end over internalAPI.
func New(internalAPI *api.API, log *logger.Logger, version string) *Core {
	if log == nil {
		log = logger.Discard()
	}
	return &Core{api: internalAPI, log: log, version: version}
}

// Server builds an MCP server with every tool registered.
func (c *Core) Server() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "tabdown", Version: c.version}, nil)
	c.registerTools(server)
	return server
}

// StartServer serves over streamable HTTP when httpAddress is set, over stdio
// otherwise. It returns when ctx is done or the transport fails.
func (c *Core) StartServer(ctx context.Context, httpAddress string) error {
	server := c.Server()
	if httpAddress != "" {
		return c.ServeHTTP(ctx, server, httpAddress)
	}
	return c.ServeStdio(ctx, server)
}

// ServeHTTP serves server over streamable HTTP on httpAddress until ctx is done.
func (c *Core) ServeHTTP(ctx context.Context, server *mcp.Server, httpAddress string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	srv := &http.Server{
		Addr:              httpAddress,
		Handler:           loggingHandler(c.log, handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	c.log.Info("MCP handler listening", "address", httpAddress)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeStdio serves server over stdin and stdout, tracing messages to stderr.
func (c *Core) ServeStdio(ctx context.Context, server *mcp.Server) error {
	t := &mcp.LoggingTransport{Transport: &mcp.StdioTransport{}, Writer: os.Stderr}
	c.log.Info("starting MCP server with stdio transport")
	return server.Run(ctx, t)
}

func remoteSource(source string) error {
	if !scraper.IsRemote(source) {
		return errors.Wrapf(ErrNotURL, "%q", source)
	}
	return nil
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	result, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(result)},
		},
	}, nil, nil
}

func (c *Core) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_page",
		Description: "Load a web page and list the tables and lists that can be exported as Markdown.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ScanPageArgs) (*mcp.CallToolResult, any, error) {
		if err := remoteSource(args.Source); err != nil {
			return nil, nil, err
		}
		res, err := c.api.Scan(ctx, args.Source)
		if err != nil {
			return nil, nil, err
		}
		return textResult(res)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_candidate",
		Description: "Convert one table or list of a page, by its scan_page index, to Markdown.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ExtractCandidateArgs) (*mcp.CallToolResult, any, error) {
		if err := remoteSource(args.Source); err != nil {
			return nil, nil, err
		}
		e, err := c.api.Extract(ctx, args.Source, args.Index)
		if err != nil {
			return nil, nil, err
		}
		out := ExportOutput{
			Filename: e.Download.Filename,
			MIME:     e.Download.MIME,
			Markdown: e.Download.Content,
			Rows:     e.Shape.Rows,
			Items:    e.Shape.ListItems,
		}
		return textResult(out)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "page_markdown",
		Description: "Convert the main content of a web page to Markdown.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ScanPageArgs) (*mcp.CallToolResult, any, error) {
		if err := remoteSource(args.Source); err != nil {
			return nil, nil, err
		}
		md, err := c.api.Page(ctx, args.Source)
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: md}}}, nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_exports",
		Description: "List archived exports, newest first, with pagination.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListExportsArgs) (*mcp.CallToolResult, any, error) {
		entries, err := c.api.History(ctx, 0)
		if err != nil {
			return nil, nil, err
		}
		start := min(max(args.Offset, 0), len(entries))
		end := len(entries)
		if args.Limit > 0 {
			end = min(start+args.Limit, len(entries))
		}

		paginated := make([]EntryOutput, 0, end-start)
		for _, e := range entries[start:end] {
			paginated = append(paginated, EntryOutput{
				ID:        e.ID,
				Source:    e.Source,
				Filename:  e.Filename,
				Checksum:  e.Checksum,
				CreatedAt: e.CreatedAt,
			})
		}
		return textResult(map[string]any{"exports": paginated, "total": len(entries)})
	})
}
