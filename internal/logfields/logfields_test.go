package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    interface{}
	}{
		{"RunID", KeyRunID, "run-1", RunID("run-1")},
		{"DocsRoot", KeyDocsRoot, "docs", DocsRoot("docs")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "guide/setup.md", File("guide/setup.md")},
		{"Link", KeyLink, "./other.md#install", Link("./other.md#install")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"Kind", KeyKind, "anchor", Kind("anchor")},
	}

	for _, tc := range cases {
		a := tc.attr.(slog.Attr)
		if a.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, a.Key)
		}
		if got := a.Value.String(); got != tc.attrVal { // Value is slog.Value
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Count(3); v.Key != KeyCount {
		t.Fatalf("Count key mismatch: %s", v.Key)
	}
	if v := Index(1); v.Key != KeyIndex {
		t.Fatalf("Index key mismatch: %s", v.Key)
	}
	if v := Total(9); v.Key != KeyTotal {
		t.Fatalf("Total key mismatch: %s", v.Key)
	}
	if v := Status(200); v.Key != KeyStatus {
		t.Fatalf("Status key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	attr = Error(errTest{})
	if attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
