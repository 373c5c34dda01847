package http

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sagarc03/dirindex"
	"github.com/sagarc03/dirindex/filesystem"
)

// Service renders directory listings.
type Service interface {
	Listing(ctx context.Context, req dirindex.ListRequest) ([]byte, error)
}

// FileStore opens regular files for the static-file stage.
type FileStore interface {
	Open(ctx context.Context, segments []string) (filesystem.File, fs.FileInfo, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled" yaml:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

// Route serves one mount: listings first, then files.
type Route struct {
	Mount  *dirindex.Mount
	Lister Service
	Files  FileStore
}

type HandlerConfig struct {
	Routes []Route
	CORS   CORSConfig
}

// Handler wires mounts into an HTTP router.
type Handler struct {
	config HandlerConfig
}

// NewHandler creates a new Handler with the given configuration.
func NewHandler(config *HandlerConfig) *Handler {
	return &Handler{
		config: *config,
	}
}

// Router returns an http.Handler with one chi mount per route. Each mount
// runs the listing middleware in front of the static-file stage; requests
// outside every mount get the default 404 page.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	for _, route := range h.config.Routes {
		stage := StaticFiles(route.Mount, route.Files)
		r.Mount(route.Mount.Path(), Middleware(route.Mount, route.Lister)(stage))
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusNotFound)
	})

	return r
}

// Middleware renders a listing when a GET or HEAD request resolves to an
// eligible directory under mount, and calls next for everything else.
// Only a path that fails sanitization is answered here with an error.
func Middleware(mount *dirindex.Mount, service Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			sub, ok := mount.Eligible(dirindex.SplitPath(r.URL.EscapedPath()))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			segments, err := dirindex.Sanitize(sub)
			if err != nil {
				slog.Warn("rejected request path", "path", r.URL.EscapedPath(), "err", err)
				HandleError(w, r, err)
				return
			}

			sort := dirindex.ParseSortKey(r.URL.Query().Get("sort"))
			req := dirindex.NewListRequest(mount, segments, r.Host, sort)

			body, err := service.Listing(r.Context(), req)
			if err != nil {
				if errors.Is(err, dirindex.ErrNotFound) {
					slog.Debug("not a directory, passing on", "path", req.Path, "err", err)
					next.ServeHTTP(w, r)
					return
				}
				HandleError(w, r, err)
				return
			}

			WriteHTML(w, r, http.StatusOK, body)
		})
	}
}

// StaticFiles serves regular files below mount. It is the stage listings
// pass requests on to.
func StaticFiles(mount *dirindex.Mount, files FileStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			WriteError(w, r, http.StatusMethodNotAllowed)
			return
		}

		sub, ok := mount.Subpath(dirindex.SplitPath(r.URL.EscapedPath()))
		if !ok {
			WriteError(w, r, http.StatusNotFound)
			return
		}

		segments, err := dirindex.Sanitize(sub)
		if err != nil {
			HandleError(w, r, err)
			return
		}

		f, info, err := files.Open(r.Context(), segments)
		if err != nil {
			HandleError(w, r, err)
			return
		}
		defer func() { _ = f.Close() }()

		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	})
}
