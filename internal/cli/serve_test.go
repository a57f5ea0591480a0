package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestDocServer(t *testing.T) *docServer {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "map.yaml")
	text := []byte("name: soc\naddress_blocks: []\n")
	if err := os.WriteFile(path, text, 0o644); err != nil {
		t.Fatal(err)
	}
	return &docServer{path: path, text: text}
}

func TestServeGetDocument(t *testing.T) {
	s := newTestDocServer(t)

	rec := httptest.NewRecorder()
	s.getDocument(rec, httptest.NewRequest(http.MethodGet, "/document", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "name: soc") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestServePostDocument(t *testing.T) {
	s := newTestDocServer(t)

	update := "name: soc2\naddress_blocks: []\n"
	rec := httptest.NewRecorder()
	s.postDocument(rec, httptest.NewRequest(http.MethodPost, "/document", strings.NewReader(update)))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	// The accepted update is durable and visible to subsequent GETs.
	onDisk, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatal(err)
	}
	if string(onDisk) != update {
		t.Errorf("file = %q, want %q", onDisk, update)
	}
	rec = httptest.NewRecorder()
	s.getDocument(rec, httptest.NewRequest(http.MethodGet, "/document", nil))
	if rec.Body.String() != update {
		t.Errorf("GET after POST = %q, want %q", rec.Body.String(), update)
	}
}

func TestServePostDocumentRejectsMalformed(t *testing.T) {
	s := newTestDocServer(t)
	before := string(s.text)

	rec := httptest.NewRecorder()
	s.postDocument(rec, httptest.NewRequest(http.MethodPost, "/document", strings.NewReader("[unclosed")))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if string(s.text) != before {
		t.Error("rejected update mutated the served document")
	}
}
