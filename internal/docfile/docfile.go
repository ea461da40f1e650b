// Package docfile turns uploaded or on-disk postings (plain text, HTML, PDF,
// DOCX) into the plain text the parser reads.
package docfile

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"jdparse-engine/internal/htmltext"
)

const (
	MIMEText = "text/plain"
	MIMEHTML = "text/html"
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var ErrUnsupported = errors.New("unsupported file type")

var (
	reParaEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	reXMLTag  = regexp.MustCompile(`<[^>]+>`)
)

// MIMEFromPath guesses the type from the file extension; unknown
// extensions read as plain text.
func MIMEFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return MIMEHTML
	case ".pdf":
		return MIMEPDF
	case ".docx":
		return MIMEDOCX
	}
	return MIMEText
}

// Extract returns the text of data. Plain text that looks like HTML is
// flattened too.
func Extract(mime string, data []byte) (string, error) {
	switch mime {
	case "", MIMEText:
		s := string(data)
		if htmltext.LooksLikeHTML(s) {
			return htmltext.ToText(s), nil
		}
		return s, nil
	case MIMEHTML:
		return htmltext.ToText(string(data)), nil
	case MIMEPDF:
		return pdfText(data)
	case MIMEDOCX:
		return docxText(data)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := Extract(MIMEFromPath(path), data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()
	return xmlText(doc.Editable().GetContent()), nil
}

// xmlText flattens WordprocessingML: one line per paragraph, tags dropped,
// entities decoded.
func xmlText(content string) string {
	content = reParaEnd.ReplaceAllStringFunc(content, func(tag string) string {
		if tag == "<w:tab/>" {
			return " "
		}
		return "\n"
	})
	return strings.TrimSpace(html.UnescapeString(reXMLTag.ReplaceAllString(content, "")))
}

// ReadAll is Extract over a reader, for stdin.
func ReadAll(r io.Reader, mime string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return Extract(mime, data)
}
