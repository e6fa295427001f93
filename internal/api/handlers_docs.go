// handlers_docs.go - Documentation page rendered from README.md
package api

import (
	"bytes"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const docsPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset='utf-8'>
  <title>Docs</title>
  <style>body{font-family:Arial, Helvetica, sans-serif;margin:40px}.container{max-width:900px;margin:auto;background:white;padding:20px;border-radius:12px;box-shadow:0 4px 10px rgba(0,0,0,0.1)}</style>
</head>
<body>
  <div class='container'>%s</div>
</body>
</html>`

// DocsHandlerImpl implements the DocsHandler interface
type DocsHandlerImpl struct {
	path     string
	markdown goldmark.Markdown
}

// NewDocsHandler serves the markdown file at path as HTML
func NewDocsHandler(path string) DocsHandler {
	return &DocsHandlerImpl{
		path: path,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// HandleDocs renders the documentation file. The file is read on every
// request so edits show up without a restart.
func (h *DocsHandlerImpl) HandleDocs(c echo.Context) error {
	source, err := os.ReadFile(h.path)
	if err != nil {
		return c.HTML(http.StatusNotFound, "<p style='color:red;'>Docs not found.</p>")
	}

	var buf bytes.Buffer
	if err := h.markdown.Convert(source, &buf); err != nil {
		return NewInternalError("failed to render docs", err)
	}

	return c.HTML(http.StatusOK, fmt.Sprintf(docsPage, buf.String()))
}
