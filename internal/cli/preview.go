package cli

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

// previewExts are the files listed on the preview index.
var previewExts = map[string]bool{
	".svg": true, ".html": true, ".png": true, ".pdf": true, ".json": true, ".dot": true,
}

// previewCommand creates the preview command, which serves an output
// directory over HTTP.
func (c *CLI) previewCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "preview [dir]",
		Short: "Serve rendered charts for viewing in a browser",
		Long: `Serve rendered charts for viewing in a browser.

The index lists every chart, page, and export in the directory; files are
served as they are on disk, so re-running render or watch updates them in
place.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return c.runPreview(cmd.Context(), dir, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8086", "listen address")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, dir, addr string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           newPreviewRouter(dir, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printSuccess("Serving %s", dir)
	printKeyValue("URL", StyleLink.Render("http://"+ln.Addr().String()+"/"))
	printDetail("Press Ctrl+C to stop")

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// newPreviewRouter serves an index of dir at / and its files under /files/.
func newPreviewRouter(dir string, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		files, err := previewFiles(dir)
		if err != nil {
			logger.Error("list preview files", "dir", dir, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := previewIndex.Execute(w, previewData{Dir: dir, Files: files}); err != nil {
			logger.Error("render preview index", "error", err)
		}
	})

	files := http.StripPrefix("/files/", http.FileServer(http.Dir(dir)))
	r.Get("/files/*", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		files.ServeHTTP(w, req)
	})

	return r
}

// requestLogger logs each request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

type previewFile struct {
	Name  string
	Kind  string
	Image bool
}

type previewData struct {
	Dir   string
	Files []previewFile
}

// previewFiles lists the viewable files directly under dir, by name.
func previewFiles(dir string) ([]previewFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []previewFile
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || !previewExts[ext] {
			continue
		}
		out = append(out, previewFile{
			Name:  e.Name(),
			Kind:  strings.TrimPrefix(ext, "."),
			Image: ext == ".svg" || ext == ".png",
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var previewIndex = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>swapcharts · {{.Dir}}</title>
    <style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
figure { margin: 0 0 2rem; }
figcaption { color: #777; padding: 0.5rem 0; }
img { max-width: 100%; border: 1px solid #ddd; }
li { line-height: 1.6; }
    </style>
  </head>
  <body>
    <h1>{{.Dir}}</h1>
{{- if not .Files}}
    <p>No charts yet.</p>
{{- end}}
    <ul>
{{- range .Files}}{{if not .Image}}
      <li><a href="/files/{{.Name}}">{{.Name}}</a> <small>{{.Kind}}</small></li>
{{- end}}{{end}}
    </ul>
{{- range .Files}}{{if .Image}}
    <figure>
      <figcaption><a href="/files/{{.Name}}">{{.Name}}</a></figcaption>
      <img src="/files/{{.Name}}" alt="{{.Name}}" />
    </figure>
{{- end}}{{end}}
  </body>
</html>
`))
