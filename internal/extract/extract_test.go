package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/reqwiz/internal/model"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFromBytes_Text(t *testing.T) {
	text, err := FromBytes("ad.txt", []byte("Senior   Engineer\r\n\r\n\r\nBuild  APIs\n"))
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer\n\nBuild APIs", text)
}

func TestFromBytes_InvalidUTF8Dropped(t *testing.T) {
	text, err := FromBytes("ad.txt", []byte("caf\xffe"))
	require.NoError(t, err)
	assert.Equal(t, "cafe", text)
}

func TestFromBytes_Docx(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>Responsibilities</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Own the </w:t></w:r><w:r><w:t>billing service</w:t></w:r></w:p>`)

	text, err := FromBytes("posting.DOCX", data)
	require.NoError(t, err)
	assert.Equal(t, "Responsibilities\nOwn the billing service", text)
}

func TestFromBytes_DocxMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = FromBytes("posting.docx", buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestFromBytes_HTML(t *testing.T) {
	page := `<html><head><title>x</title><style>p{}</style></head><body>
<h2>Benefits</h2><ul><li>Health insurance</li><li>Remote work</li></ul>
<script>alert(1)</script></body></html>`

	text, err := FromBytes("job.html", []byte(page))
	require.NoError(t, err)
	assert.Contains(t, text, "Benefits")
	assert.Contains(t, text, "- Health insurance")
	assert.Contains(t, text, "- Remote work")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "p{}")
}

func TestFromBytes_Unsupported(t *testing.T) {
	_, err := FromBytes("sheet.xlsx", []byte("data"))
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".xlsx", unsupported.Ext)
}

func TestFromBytes_NoExtension(t *testing.T) {
	text, err := FromBytes("README", []byte("plain words"))
	require.NoError(t, err)
	assert.Equal(t, "plain words", text)

	// A %PDF header routes to the PDF reader, which rejects this truncated file.
	_, err = FromBytes("upload", []byte("%PDF-1.4 truncated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf")
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ad.md")
	require.NoError(t, os.WriteFile(path, []byte("# Data Engineer\n"), 0o644))

	text, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Data Engineer", text)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestHTMLFragmentText_Escaped(t *testing.T) {
	text, err := HTMLFragmentText("&lt;p&gt;Ship features&lt;/p&gt;&lt;ul&gt;&lt;li&gt;Go&lt;/li&gt;&lt;/ul&gt;")
	require.NoError(t, err)
	assert.Equal(t, "Ship features\n- Go", text)
}

func TestFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/job":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<p>Lead the platform team</p>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	text, err := FromURL(context.Background(), srv.Client(), srv.URL+"/job")
	require.NoError(t, err)
	assert.Equal(t, "Lead the platform team", strings.TrimSpace(text))

	_, err = FromURL(context.Background(), srv.Client(), srv.URL+"/gone")
	var httpErr *model.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)

	_, err = FromURL(context.Background(), srv.Client(), "ftp://example.com/x")
	require.Error(t, err)
}

func TestFromURL_RejectsOversizedBody(t *testing.T) {
	prev := maxDownload
	maxDownload = 16
	t.Cleanup(func() { maxDownload = prev })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		switch r.URL.Path {
		case "/fits":
			_, _ = w.Write([]byte(strings.Repeat("a", 16)))
		default:
			_, _ = w.Write([]byte(strings.Repeat("a", 17)))
		}
	}))
	defer srv.Close()

	text, err := FromURL(context.Background(), srv.Client(), srv.URL+"/fits")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 16), strings.TrimSpace(text))

	_, err = FromURL(context.Background(), srv.Client(), srv.URL+"/big")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 16 bytes")
}
