// Package app wires repositories, the token whitelist and the event bus into
// the application services.
package app

import (
	"log/slog"

	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/domain/category"
	"github.com/saveblue/saveblue/pkg/eventbus"
	"github.com/saveblue/saveblue/pkg/repository"
	"github.com/saveblue/saveblue/pkg/service/account"
	"github.com/saveblue/saveblue/pkg/service/auth"
	"github.com/saveblue/saveblue/pkg/service/draft"
	"github.com/saveblue/saveblue/pkg/service/entry"
	"github.com/saveblue/saveblue/pkg/service/goal"
	"github.com/saveblue/saveblue/pkg/service/ownership"
	"github.com/saveblue/saveblue/pkg/service/user"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Uow      repository.UnitOfWork
	Tokens   repository.TokenStore
	EventBus eventbus.Bus
	Taxonomy *category.Taxonomy
	Logger   *slog.Logger
}

type App struct {
	Deps           *Deps
	Config         *config.App
	AuthService    *auth.Service
	UserService    *user.Service
	AccountService *account.Service
	EntryService   *entry.Service
	GoalService    *goal.Service
	DraftService   *draft.Service
	Ownership      *ownership.Verifier
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()

	app.AuthService = auth.New(deps.Uow, deps.Tokens, cfg.Auth.Jwt, cfg.Whitelist.TTL, deps.Logger)
	app.UserService = user.New(deps.Uow, deps.Tokens, deps.Logger)
	app.AccountService = account.New(deps.Uow, deps.Logger)
	app.EntryService = entry.New(deps.Uow, deps.Taxonomy, deps.EventBus, deps.Logger)
	app.GoalService = goal.New(deps.Uow, deps.EventBus, deps.Logger)
	app.DraftService = draft.New(deps.Uow, app.EntryService, deps.Logger)
	app.Ownership = ownership.New(deps.Uow, deps.Logger)
	return app
}
