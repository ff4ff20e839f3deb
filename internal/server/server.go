// Package server serves a built site for preview, rebuilding it when the
// docs or icons change and telling connected browsers to reload.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/conneroisu/docskin/internal/config"
	"github.com/conneroisu/docskin/internal/errors"
	"github.com/conneroisu/docskin/internal/logging"
	"github.com/conneroisu/docskin/internal/redirect"
	"github.com/conneroisu/docskin/internal/site"
	"github.com/conneroisu/docskin/internal/watcher"
	"github.com/conneroisu/docskin/internal/websocket"
)

// LivePath is the websocket endpoint browsers listen on for reloads.
const LivePath = "/_live"

const shutdownTimeout = 5 * time.Second

// PreviewServer serves the output directory with live reload.
type PreviewServer struct {
	config  *config.Config
	builder *site.Builder
	hub     *websocket.Hub
	logger  logging.Logger

	buildMutex sync.Mutex
}

// New creates a preview server around builder. When live reload is enabled
// the builder's pages get the reload script.
func New(cfg *config.Config, builder *site.Builder, logger logging.Logger) *PreviewServer {
	logger = logger.WithComponent("server")
	if cfg.Server.LiveReload {
		builder.Head = LiveReloadScript(LivePath)
	}
	return &PreviewServer{
		config:  cfg,
		builder: builder,
		hub:     websocket.NewHub(nil, logger),
		logger:  logger,
	}
}

// Handler returns the router: live reload, redirects, then static files.
func (s *PreviewServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer(s.logger))
	r.Use(requestLogger(s.logger))
	r.Use(securityHeaders)

	if s.config.Server.LiveReload {
		r.Get(LivePath, s.hub.ServeHTTP)
	}

	files := http.FileServer(http.Dir(s.config.Build.OutDir))
	r.Handle("/*", redirect.Handler(s.config.Redirects, files))
	return r
}

// Rebuild builds the site and, on success, tells browsers to reload. A
// failed build leaves the previous output in place.
func (s *PreviewServer) Rebuild(ctx context.Context) error {
	s.buildMutex.Lock()
	defer s.buildMutex.Unlock()

	result, err := s.builder.Build(ctx)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "Site built",
		"pages", result.Pages,
		"redirects", result.Redirects,
		"duration", result.Duration.String(),
	)
	s.hub.Broadcast([]byte(websocket.ReloadMessage))
	return nil
}

// Run builds once, then serves on listener until ctx is cancelled.
func (s *PreviewServer) Run(ctx context.Context, listener net.Listener) error {
	if err := s.Rebuild(ctx); err != nil {
		return err
	}

	fw, err := s.watch(ctx)
	if err != nil {
		return err
	}
	defer fw.Stop()

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()
	s.logger.Info(ctx, "Serving preview", "addr", listener.Addr().String())

	select {
	case err := <-serveErr:
		s.hub.Close()
		if err != nil && err != http.ErrServerClosed {
			return errors.NewIOError("SERVE", "serving preview", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.NewIOError("SHUTDOWN", "shutting down preview", err)
	}
	return nil
}

// ListenAndRun listens on the configured host and port and calls Run.
func (s *PreviewServer) ListenAndRun(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.NewIOError("LISTEN", fmt.Sprintf("listening on %s", addr), err)
	}
	return s.Run(ctx, listener)
}

func (s *PreviewServer) watch(ctx context.Context) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(s.config.Server.Debounce, s.logger)
	if err != nil {
		return nil, err
	}
	fw.AddFilter(watcher.SourceFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.ExcludeDirFilter(s.config.Build.OutDir))
	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		s.logger.Info(ctx, "Sources changed", "files", len(events))
		return s.Rebuild(ctx)
	})

	for _, dir := range []string{s.config.Docs.Dir, s.config.Icons.Dir} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := fw.AddRecursive(dir); err != nil {
			_ = fw.Stop()
			return nil, err
		}
	}

	fw.Start(ctx)
	return fw, nil
}

// LiveReloadScript connects to path and reloads the page on request.
func LiveReloadScript(path string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<script>(function(){`+
			`var p=location.protocol==="https:"?"wss:":"ws:";`+
			`var ws=new WebSocket(p+"//"+location.host+`+strconv.Quote(path)+`);`+
			`ws.onmessage=function(e){if(e.data==="reload"){location.reload();}};`+
			`})();</script>`)
		return err
	})
}
