package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/bleviet/regcraft/pkg/document"
	"github.com/bleviet/regcraft/pkg/regmap"
	"github.com/bleviet/regcraft/pkg/render"
)

// maxDocumentBytes caps uploaded document size.
const maxDocumentBytes = 4 << 20

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Expose a map document to an embedding host over HTTP",
		Long: `Serve a memory-map document for an embedding host (e.g. a web frontend).

Endpoints:
  GET  /document    current document text (YAML)
  POST /document    replace the document (parsed and validated first)
  GET  /render.svg  the current map as an SVG diagram
  GET  /healthz     liveness probe

Updates are written back to the file on every accepted POST.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			path := args[0]

			text, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			if _, err := document.Parse(text); err != nil {
				return err
			}

			h := &docServer{path: path, text: text}

			r := chi.NewRouter()
			r.Use(middleware.Recoverer)
			r.Get("/document", h.getDocument)
			r.Post("/document", h.postDocument)
			r.Get("/render.svg", h.getSVG)
			r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			srv := &http.Server{
				Addr:              addr,
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-cmd.Context().Done()
				_ = srv.Close()
			}()

			logger.Info("serving document", "file", path, "addr", addr)
			printInfo("Serving %s on %s", path, addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:7317", "listen address")
	return cmd
}

// docServer holds the served document text. The file is the durable copy;
// the in-memory text is what GET returns between writes.
type docServer struct {
	path string

	mu   sync.RWMutex
	text []byte
}

func (s *docServer) getDocument(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	text := s.text
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(text)
}

func (s *docServer) postDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := document.Parse(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if _, err := doc.Map(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	s.text = body
	err = os.WriteFile(s.path, body, 0o644)
	s.mu.Unlock()
	if err != nil {
		http.Error(w, "persist document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *docServer) getSVG(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	text := s.text
	s.mu.RUnlock()

	m, err := s.decode(text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	svg, err := render.RenderSVG(render.ToDOT(m, render.Options{Detailed: true}))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *docServer) decode(text []byte) (*regmap.MemoryMap, error) {
	doc, err := document.Parse(text)
	if err != nil {
		return nil, err
	}
	return doc.Map()
}
