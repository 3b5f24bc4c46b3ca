package httptransport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"pointsbook/internal/app/economy"
	"pointsbook/internal/app/wager"
	"pointsbook/internal/cache"
	"pointsbook/internal/config"
	"pointsbook/internal/store"
)

func NewRouter(st *store.Store, cfg config.ServerConfig, econCfg config.EconomyConfig, lb *cache.Leaderboard) *chi.Mux {
	econSvc := economy.NewService(st, econCfg, lb)
	wagerSvc := wager.NewService(st, econCfg)

	econHandlers := NewEconomyHandlers(econSvc)
	wagerHandlers := NewWagerHandlers(wagerSvc)
	adminHandlers := NewAdminHandlers(st, econSvc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(MetricsMiddleware())

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Get("/public/leaderboard", econHandlers.Leaderboard())

		r.Route("/accounts/{account_id}", func(r chi.Router) {
			r.Post("/", econHandlers.Ensure())
			r.Get("/", econHandlers.Get())
			r.Get("/history", econHandlers.History())
			r.Get("/stakes", wagerHandlers.StakesByAccount())
			r.Post("/daily", econHandlers.ClaimDaily())
			r.Post("/bailout", econHandlers.ClaimBailout())
			r.Post("/transfer", econHandlers.Transfer())
		})

		r.Route("/bets", func(r chi.Router) {
			r.Post("/", wagerHandlers.Create())
			r.Get("/", wagerHandlers.List())
			r.Route("/{bet_id}", func(r chi.Router) {
				r.Get("/", wagerHandlers.Get())
				r.Get("/stakes", wagerHandlers.StakesByBet())
				r.Post("/stakes", wagerHandlers.PlaceStake())

				r.Group(func(r chi.Router) {
					r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
					r.Post("/lock", wagerHandlers.Lock())
					r.Post("/resolve", wagerHandlers.Resolve())
					r.Post("/cancel", wagerHandlers.Cancel())
					r.Post("/archive", wagerHandlers.Archive())
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Get("/admin/ledger", adminHandlers.Ledger())
			r.Post("/admin/adjust", adminHandlers.Adjust())
		})
	})

	r.With(AdminAuthMiddleware(cfg.AdminAPIKey)).Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
