package providers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/do/v2"

	"github.com/millukiapp/milluki-server/internal/api"
	"github.com/millukiapp/milluki-server/internal/config"
	"github.com/millukiapp/milluki-server/internal/logger"
	"github.com/millukiapp/milluki-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server, started in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	authService := do.MustInvoke[*service.AuthService](i)
	collectionService := do.MustInvoke[*service.CollectionService](i)
	bookService := do.MustInvoke[*service.BookService](i)
	genreService := do.MustInvoke[*service.GenreService](i)
	limiterHandle := do.MustInvoke[*LoginLimiterHandle](i)

	handler := api.NewServer(
		authService,
		collectionService,
		bookService,
		genreService,
		limiterHandle.KeyedRateLimiter,
		log.Logger,
	)

	// Bound every request so a stuck store call cannot hold a
	// connection open forever.
	var root http.Handler = handler
	if cfg.Server.RequestTimeout > 0 {
		root = middleware.Timeout(cfg.Server.RequestTimeout)(root)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      root,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
