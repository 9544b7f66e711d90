// Package screenshot persists browser screenshots, and optionally the page
// HTML next to them, under date-stamped file names.
package screenshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/browser-cli/internal/logging"
)

// Source is what a Writer captures from, typically a *session.Session.
type Source interface {
	Capture() ([]byte, error)
	PageSource() (string, error)
	CurrentURL() (string, error)
}

// Options controls one Save.
type Options struct {
	// Class and Method name the test that asked for the screenshot. Both
	// empty gives a plain timestamp name.
	Class  string
	Method string

	HTML    bool   // also write the page source as <name>.html
	Caption string // text drawn in a strip under the image; "url" uses the page address
	Width   int    // scale the image to this width, keeping its aspect ratio
}

// Writer saves screenshots under Dir.
type Writer struct {
	Dir string
	Now func() time.Time
	Log *logging.Logger
}

// NewWriter returns a Writer for dir using the wall clock.
func NewWriter(dir string, log *logging.Logger) *Writer {
	if log == nil {
		log = logging.Nop()
	}
	return &Writer{Dir: dir, Now: time.Now, Log: log}
}

// FileName returns the base name for a screenshot taken at t:
// yyyyMMdd-HHmmssS[-class.method].png, S being unpadded milliseconds.
func FileName(t time.Time, class, method string) string {
	stamp := t.Format("20060102-150405") + strconv.Itoa(t.Nanosecond()/int(time.Millisecond))
	if class != "" || method != "" {
		stamp += "-" + sanitize(class) + "." + sanitize(method)
	}
	return stamp + ".png"
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator || r == ':' {
			return '_'
		}
		return r
	}, s)
}

// Save captures src and writes it, returning the path of the PNG. When the
// configured directory cannot be written the file goes to the system temp
// directory instead.
func (w *Writer) Save(src Source, opts Options) (string, error) {
	png, err := src.Capture()
	if err != nil {
		return "", fmt.Errorf("capture screenshot: %w", err)
	}
	if opts.Caption != "" {
		text := opts.Caption
		if text == "url" {
			if u, err := src.CurrentURL(); err == nil {
				text = u
			}
		}
		if png, err = Caption(png, text); err != nil {
			return "", err
		}
	}
	if opts.Width > 0 {
		if png, err = Scale(png, opts.Width); err != nil {
			return "", err
		}
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	name := FileName(now(), opts.Class, opts.Method)

	path, err := w.write(w.Dir, name, png)
	if err != nil {
		w.logger().Debug("could not write screenshot, trying temp dir", zap.String("dir", w.Dir), zap.Error(err))
		if path, err = w.write(os.TempDir(), name, png); err != nil {
			return "", err
		}
	}

	if opts.HTML {
		html, err := src.PageSource()
		if err != nil {
			w.logger().Warn("could not read page source", zap.Error(err))
		} else if err := os.WriteFile(strings.TrimSuffix(path, ".png")+".html", []byte(html), 0o644); err != nil {
			w.logger().Warn("could not write page source", zap.Error(err))
		}
	}

	if u, err := src.CurrentURL(); err == nil {
		w.logger().Debug("screenshot url", zap.String("url", u))
	}
	w.logger().Debug("captured screenshot", zap.String("path", path))
	return path, nil
}

func (w *Writer) write(dir, name string, png []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}

func (w *Writer) logger() *logging.Logger {
	if w.Log == nil {
		return logging.Nop()
	}
	return w.Log
}
