package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/westwooddairy/storefront-backend/api/responses"
	"github.com/westwooddairy/storefront-backend/pkg/config"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
	"github.com/westwooddairy/storefront-backend/pkg/logger"
)

const envHeader = "X-Westwood-Env"

const readinessTimeout = 2 * time.Second

// Pinger is the health-check surface of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the catalog database and the cart store. Nil pingers are
// skipped so partial deployments can still report ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]Pinger{
			"database": db,
			"redis":    cache,
		}
		for name, pinger := range checks {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" not ready"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
