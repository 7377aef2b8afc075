// Package upload stages multipart image uploads on disk before validation.
//
// The handler streams the incoming part into the uploads directory and hands
// the resulting File descriptor to the employee validator. The descriptor
// carries the sniffed content type, not whatever the client declared, so the
// server-side JPEG/PNG check is authoritative. Rejected files are removed.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// File describes one staged upload: where it landed, what it actually
// contains, and how many bytes were written. Size is capped at the sink's
// limit plus one, which is enough for the validator to tell "too large"
// from "at the limit".
type File struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

type Sink struct {
	dir      string
	maxBytes int64
}

func NewSink(dir string, maxBytes int64) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &Sink{dir: dir, maxBytes: maxBytes}, nil
}

// MaxBytes reports the configured size ceiling.
func (s *Sink) MaxBytes() int64 {
	return s.maxBytes
}

// Stage writes the upload to "<unix-ms>-<basename>" inside the uploads dir
// and sniffs its content type. At most maxBytes+1 bytes are copied so an
// oversized body never lands on disk whole.
func (s *Sink) Stage(r io.Reader, originalName string) (*File, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(originalName))
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(r, s.maxBytes+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to sniff upload: %w", err)
	}

	return &File{
		Path:        filepath.ToSlash(path),
		Name:        name,
		ContentType: mtype.String(),
		Size:        written,
	}, nil
}

// Remove discards a staged file, typically after a validation failure.
func (s *Sink) Remove(f *File) {
	if f == nil {
		return
	}
	os.Remove(filepath.FromSlash(f.Path))
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
