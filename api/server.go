package api

import (
	"net/http"
	"time"

	"github.com/angelmondragon/ordering-backend/pkg/config"
)

const readHeaderTimeout = 5 * time.Second

// NewServer builds the HTTP server cmd/api runs; handler is the routed API.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}
}
