package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"

	"github.com/sanzoku-labs/linkcheck/internal/linkverify"
)

// HTMLFormatter renders the markdown report as a standalone HTML page.
type HTMLFormatter struct {
	md goldmark.Markdown
}

// NewHTMLFormatter creates an HTML formatter.
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{md: goldmark.New()}
}

const htmlHeader = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Dead Link Detection Report</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
code { background: #f2f2f2; padding: 0.1rem 0.3rem; border-radius: 3px; }
h2 { border-bottom: 1px solid #ddd; padding-bottom: 0.3rem; }
</style>
</head>
<body>
`

const htmlFooter = `</body>
</html>
`

// Format converts the markdown report to HTML and wraps it in a minimal
// page shell.
func (f *HTMLFormatter) Format(w io.Writer, result *linkverify.Result) error {
	var body bytes.Buffer
	if err := f.md.Convert([]byte(Markdown(result)), &body); err != nil {
		return fmt.Errorf("render report HTML: %w", err)
	}

	if _, err := io.WriteString(w, htmlHeader); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, htmlFooter)
	return err
}
