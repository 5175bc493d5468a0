// Package deliver hands finished Markdown documents to their destination.
package deliver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MIMEMarkdown is the content type of every exported document.
const MIMEMarkdown = "text/markdown"

// Deliverer receives a finished document.
type Deliverer interface {
	Deliver(content, filename, mime string) error
}

// Func adapts a function to the Deliverer interface.
type Func func(content, filename, mime string) error

// Deliver calls f.
func (f Func) Deliver(content, filename, mime string) error {
	return f(content, filename, mime)
}

// Multi delivers to every deliverer in order and stops at the first error.
type Multi []Deliverer

// Deliver implements Deliverer.
func (m Multi) Deliver(content, filename, mime string) error {
	for _, d := range m {
		if err := d.Deliver(content, filename, mime); err != nil {
			return err
		}
	}
	return nil
}

// Dir saves documents as files in a directory. Like a browser download, an
// existing file is kept and the new one gets a " (n)" suffix unless Overwrite
// is set.
type Dir struct {
	Path      string
	Overwrite bool
	// Saved lists the paths written so far
	Saved []string
}

var unsafeChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_", "\x00", "_",
)

// Deliver implements Deliverer.
func (d *Dir) Deliver(content, filename, _ string) error {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	name := unsafeChars.Replace(filename)
	if name == "" || name == "." || name == ".." {
		name = "download.md"
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if d.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(d.Path, candidate)

		f, err := os.OpenFile(path, flags, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if _, err := io.WriteString(f, content); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
		d.Saved = append(d.Saved, path)
		return nil
	}
}

// Writer prints documents to a stream, each preceded by a header line.
type Writer struct {
	W io.Writer
}

// Deliver implements Deliverer.
func (w Writer) Deliver(content, filename, mime string) error {
	if _, err := fmt.Fprintf(w.W, "==> %s (%s) <==\n%s", filename, mime, content); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if !strings.HasSuffix(content, "\n") {
		_, err := fmt.Fprintln(w.W)
		return err
	}
	return nil
}
