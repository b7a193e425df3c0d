// Package extract converts uploaded documents into normalized plain text.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UnsupportedFormatError is returned for file extensions with no extractor.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type %q", e.Ext)
}

var pdfMagic = []byte("%PDF")

// FromFile reads the file at path and extracts its text.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	text, err := FromBytes(filepath.Base(path), data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	return text, nil
}

// FromBytes extracts text from data, choosing the format by the extension of
// name. Without an extension the content is sniffed: a %PDF header means PDF,
// anything else is read as plain text.
func FromBytes(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		if bytes.HasPrefix(data, pdfMagic) {
			ext = ".pdf"
		} else {
			ext = ".txt"
		}
	}

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = pdfText(data)
	case ".docx":
		text, err = docxText(data)
	case ".html", ".htm":
		text, err = HTMLText(bytes.NewReader(data))
	case ".txt", ".md", ".text":
		text = string(data)
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
	if err != nil {
		return "", err
	}
	return Normalize(text), nil
}

// Normalize drops invalid UTF-8, collapses runs of whitespace within each
// line and squeezes consecutive blank lines into one.
func Normalize(text string) string {
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	blank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = b.Len() > 0
			continue
		}
		if blank {
			b.WriteString("\n")
			blank = false
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
	}
	return b.String()
}
