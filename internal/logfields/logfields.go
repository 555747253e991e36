package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID    = "run_id"
	KeyDocsRoot = "docs_root"
	KeyPath     = "path"
	KeyFile     = "file"
	KeyLink     = "link"
	KeyURL      = "url"
	KeyKind     = "kind"
	KeyCount    = "count"
	KeyIndex    = "index"
	KeyTotal    = "total"
	KeyStatus   = "status"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr     { return slog.String(KeyRunID, id) }
func DocsRoot(p string) slog.Attr   { return slog.String(KeyDocsRoot, p) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func File(f string) slog.Attr       { return slog.String(KeyFile, f) }
func Link(l string) slog.Attr       { return slog.String(KeyLink, l) }
func URL(u string) slog.Attr        { return slog.String(KeyURL, u) }
func Kind(k string) slog.Attr       { return slog.String(KeyKind, k) }
func Count(n int) slog.Attr         { return slog.Int(KeyCount, n) }
func Index(i int) slog.Attr         { return slog.Int(KeyIndex, i) }
func Total(n int) slog.Attr         { return slog.Int(KeyTotal, n) }
func Status(code int) slog.Attr     { return slog.Int(KeyStatus, code) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
