package handlers

import (
	"html/template"
	"incordes-client/internal/auth"
	"incordes-client/internal/cascade"
	"incordes-client/internal/guard"
	"incordes-client/internal/models"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Deps struct {
	Auth     *auth.Machine
	Shell    *cascade.Shell
	Cookies  sessions.Store
	Gatherer prometheus.Gatherer
}

type Handlers struct {
	sugar     *zap.SugaredLogger
	auth      *auth.Machine
	shell     *cascade.Shell
	cookies   sessions.Store
	templates map[string]*template.Template
	now       func() time.Time
}

// Setup builds the router of the web UI.
func Setup(cfg *models.ConfigFile, sugar *zap.SugaredLogger, deps Deps) (http.Handler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	h := &Handlers{
		sugar:     sugar,
		auth:      deps.Auth,
		shell:     deps.Shell,
		cookies:   deps.Cookies,
		templates: templates,
		now:       time.Now,
	}

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.PrintHttpRequests {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware(guard.Public, h.auth, h.Loading))
		r.Get("/", h.LoginPage)
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware(guard.Protected, h.auth, h.Loading))
		r.Post("/logout", h.Logout)

		r.Route("/app", func(r chi.Router) {
			r.Get("/", h.AppPage)
			r.Post("/servers", h.CreateServer)
			r.Post("/servers/select", h.SelectServer)
			r.Post("/channels", h.CreateChannel)
			r.Post("/channels/select", h.SelectChannel)
			r.Post("/messages", h.SendMessage)
			r.Post("/settings", h.SaveSettings)
		})
	})

	r.Get("/privacy", h.Privacy)
	r.Get("/terms", h.Terms)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.NotFound(h.NotFound)

	return r, nil
}
