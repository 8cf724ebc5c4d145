// Package handler exposes the API as a single net/http handler for
// serverless deployments.
package handler

import (
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/saveblue/saveblue/infra/initializer"
	"github.com/saveblue/saveblue/pkg/app"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/webapi"
)

var (
	once    sync.Once
	handler http.HandlerFunc
	initErr error
)

// Handler is the main entry point of the application.
func Handler(w http.ResponseWriter, r *http.Request) {
	// This is needed to set the proper request path in `*fiber.Ctx`
	r.RequestURI = r.URL.String()

	once.Do(func() { handler, initErr = build() })
	if initErr != nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	handler.ServeHTTP(w, r)
}

// build wires the application once per instance. Connections stay open for
// the lifetime of the instance.
func build() (http.HandlerFunc, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	deps, _, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return nil, err
	}
	return adaptor.FiberApp(webapi.SetupApp(app.New(deps, cfg))), nil
}
