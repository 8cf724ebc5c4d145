package entry

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/middleware"
	"github.com/saveblue/saveblue/pkg/money"
	authsvc "github.com/saveblue/saveblue/pkg/service/auth"
	draftsvc "github.com/saveblue/saveblue/pkg/service/draft"
	entrysvc "github.com/saveblue/saveblue/pkg/service/entry"
	"github.com/saveblue/saveblue/pkg/service/ownership"
	"github.com/saveblue/saveblue/webapi/common"
)

// Prefix returns the route prefix of kind.
func Prefix(kind entry.Kind) string {
	if kind == entry.Expense {
		return "/expenses"
	}
	return "/incomes"
}

// Routes registers the CRUD, listing and breakdown routes of both entry kinds,
// the SMS draft import and the category listing.
func Routes(
	app *fiber.App,
	entrySvc *entrysvc.Service,
	draftSvc *draftsvc.Service,
	authSvc *authsvc.Service,
	verifier *ownership.Verifier,
	cfg *config.Auth,
) {
	app.Post("/expenses/drafts/sms", middleware.Protected(cfg, authSvc, ImportSMS(draftSvc))...)
	app.Get("/categories", middleware.Protected(cfg, authSvc, ListCategories(entrySvc))...)
	for _, kind := range []entry.Kind{entry.Expense, entry.Income} {
		kindRoutes(app, kind, entrySvc, authSvc, verifier, cfg)
	}
}

func kindRoutes(
	app *fiber.App,
	kind entry.Kind,
	entrySvc *entrysvc.Service,
	authSvc *authsvc.Service,
	verifier *ownership.Verifier,
	cfg *config.Auth,
) {
	p := Prefix(kind)
	owned := middleware.VerifyEntry(verifier, kind, "id")
	account := middleware.VerifyAccountOrDrafts(verifier, "aid")

	app.Get(p+"/find/:aid", middleware.Protected(cfg, authSvc, account, ListEntries(entrySvc, kind))...)
	app.Get(p+"/breakdown/:aid", middleware.Protected(cfg, authSvc, account, Breakdown(entrySvc, kind))...)
	app.Get(p+"/:id", middleware.Protected(cfg, authSvc, owned, GetEntry(entrySvc, kind))...)
	app.Post(p, middleware.Protected(cfg, authSvc,
		middleware.VerifyEntryCreation(verifier), CreateEntry(entrySvc, kind))...)
	app.Put(p+"/:id", middleware.Protected(cfg, authSvc, owned, UpdateEntry(entrySvc, kind))...)
	app.Delete(p+"/:id", middleware.Protected(cfg, authSvc, owned, DeleteEntry(entrySvc, kind))...)
}

// ListEntries returns one page of an account's entries, newest first.
// @Summary List entries
// @Tags entries
// @Produce json
// @Param aid path string true "Account ID"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /expenses/find/{aid} [get]
// @Router /incomes/find/{aid} [get]
// @Security Bearer
func ListEntries(entrySvc *entrysvc.Service, kind entry.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aid, ok, err := common.ParamUUID(c, "aid")
		if !ok {
			return err
		}
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		entries, err := entrySvc.List(c.UserContext(), kind, aid, page)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list entries", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Entries fetched", entries)
	}
}

// GetEntry returns one entry.
// @Summary Get entry
// @Tags entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /expenses/{id} [get]
// @Router /incomes/{id} [get]
// @Security Bearer
func GetEntry(entrySvc *entrysvc.Service, kind entry.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		e, err := entrySvc.Get(c.UserContext(), kind, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Entry not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Entry fetched", e)
	}
}

// CreateEntry records an income or expense and updates the account balances.
// @Summary Create entry
// @Tags entries
// @Accept json
// @Produce json
// @Param request body CreateEntryInput true "Entry data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /expenses [post]
// @Router /incomes [post]
// @Security Bearer
func CreateEntry(entrySvc *entrysvc.Service, kind entry.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateEntryInput](c)
		if input == nil {
			return err
		}
		amount, err := money.ParseEntryAmount(input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}
		in := entrysvc.CreateInput{
			UserID:      input.UserID,
			AccountID:   input.AccountID,
			Category1:   input.Category1,
			Category2:   input.Category2,
			Description: input.Description,
			Amount:      amount,
		}
		if input.Date != nil {
			in.Date = *input.Date
		}
		e, err := entrySvc.Create(c.UserContext(), kind, in)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create entry", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Entry created", e)
	}
}

// UpdateEntry edits an entry, moving it between accounts when accountID changes.
// @Summary Update entry
// @Tags entries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param request body UpdateEntryInput true "Entry changes"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /expenses/{id} [put]
// @Router /incomes/{id} [put]
// @Security Bearer
func UpdateEntry(entrySvc *entrysvc.Service, kind entry.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UpdateEntryInput](c)
		if input == nil {
			return err
		}
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		patch, err := input.toPatch()
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}
		e, err := entrySvc.Update(c.UserContext(), kind, id, patch)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update entry", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Entry updated", e)
	}
}

// DeleteEntry removes an entry and reverses its balance effect.
// @Summary Delete entry
// @Tags entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /expenses/{id} [delete]
// @Router /incomes/{id} [delete]
// @Security Bearer
func DeleteEntry(entrySvc *entrysvc.Service, kind entry.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		if err := entrySvc.Delete(c.UserContext(), kind, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete entry", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Entry deleted", nil)
	}
}

// Breakdown sums an account's entries per category over an optional date range.
// @Summary Category breakdown
// @Tags entries
// @Produce json
// @Param aid path string true "Account ID"
// @Param from query string false "Inclusive lower bound (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Inclusive upper bound (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /expenses/breakdown/{aid} [get]
// @Router /incomes/breakdown/{aid} [get]
// @Security Bearer
func Breakdown(entrySvc *entrysvc.Service, kind entry.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aid, ok, err := common.ParamUUID(c, "aid")
		if !ok {
			return err
		}
		from, err := parseBound(c.Query("from"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid from date", nil, err.Error(), fiber.StatusBadRequest)
		}
		to, err := parseBound(c.Query("to"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid to date", nil, err.Error(), fiber.StatusBadRequest)
		}
		sums, err := entrySvc.Breakdown(c.UserContext(), kind, aid, from, to)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compute breakdown", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Breakdown computed", sums)
	}
}

func parseBound(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%q is not an RFC3339 timestamp or YYYY-MM-DD date", raw)
}

// ImportSMS turns a bank notification into a draft expense.
// @Summary Import SMS as draft
// @Tags entries
// @Accept json
// @Produce json
// @Param request body SMSInput true "Notification"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /expenses/drafts/sms [post]
// @Security Bearer
func ImportSMS(draftSvc *draftsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SMSInput](c)
		if input == nil {
			return err
		}
		subject, _ := middleware.Subject(c)
		if subject != input.UserID {
			return common.ProblemDetailsJSON(c, "Access denied", nil, "cannot import for another user", fiber.StatusUnauthorized)
		}
		e, err := draftSvc.IngestSMS(c.UserContext(), input.UserID, input.SMS)
		if err != nil {
			log.Infof("SMS import rejected: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to import SMS", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Draft created", e)
	}
}

// ListCategories returns the accepted expense and income categories.
// @Summary List categories
// @Tags entries
// @Produce json
// @Success 200 {object} common.Response
// @Router /categories [get]
// @Security Bearer
func ListCategories(entrySvc *entrysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t := entrySvc.Taxonomy()
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Categories fetched", Categories{
			Expense: t.Expense(),
			Income:  t.Income(),
		})
	}
}
