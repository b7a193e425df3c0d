package extract

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/amishk599/reqwiz/internal/model"
)

// maxDownload caps how many bytes FromURL reads from a response body.
var maxDownload int64 = 20 << 20

// FromURL downloads rawURL and extracts its text. The Content-Type header
// picks the extractor; when it is missing or generic the URL path's
// extension is used instead.
func FromURL(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("fetch %s: not an http(s) url", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", "reqwiz")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload+1))
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if int64(len(data)) > maxDownload {
		return "", fmt.Errorf("fetch %s: response exceeds %d bytes", rawURL, maxDownload)
	}

	name := path.Base(u.Path)
	if ext := extForContentType(resp.Header.Get("Content-Type")); ext != "" {
		name = "download" + ext
	} else if path.Ext(name) == "" {
		name = "download.html"
	}
	return FromBytes(name, data)
}

func extForContentType(ct string) string {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	switch {
	case mediaType == "text/html", mediaType == "application/xhtml+xml":
		return ".html"
	case mediaType == "application/pdf":
		return ".pdf"
	case mediaType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return ".docx"
	case strings.HasPrefix(mediaType, "text/"):
		return ".txt"
	}
	return ""
}
