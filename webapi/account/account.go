package account

import (
	"github.com/gofiber/fiber/v2"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/middleware"
	accountsvc "github.com/saveblue/saveblue/pkg/service/account"
	authsvc "github.com/saveblue/saveblue/pkg/service/auth"
	"github.com/saveblue/saveblue/pkg/service/ownership"
	"github.com/saveblue/saveblue/webapi/common"
)

func Routes(
	app *fiber.App,
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
	verifier *ownership.Verifier,
	cfg *config.Auth,
) {
	app.Get("/accounts/drafts/:uid", middleware.Protected(cfg, authSvc,
		middleware.VerifyUser(verifier, "uid"), GetDrafts(accountSvc))...)
	app.Get("/accounts/find/:id", middleware.Protected(cfg, authSvc,
		middleware.VerifyAccountOrDrafts(verifier, "id"), GetAccount(accountSvc))...)
	app.Get("/accounts/:uid", middleware.Protected(cfg, authSvc,
		middleware.VerifyUser(verifier, "uid"), ListAccounts(accountSvc))...)
	app.Post("/accounts/:uid", middleware.Protected(cfg, authSvc,
		middleware.VerifyUser(verifier, "uid"), CreateAccount(accountSvc))...)
	app.Put("/accounts/:id", middleware.Protected(cfg, authSvc,
		middleware.VerifyAccount(verifier, "id"), UpdateAccount(accountSvc))...)
	app.Delete("/accounts/:id", middleware.Protected(cfg, authSvc,
		middleware.VerifyAccount(verifier, "id"), DeleteAccount(accountSvc))...)
}

// ListAccounts returns the user's regular accounts.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Param uid path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /accounts/{uid} [get]
// @Security Bearer
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, ok, err := common.ParamUUID(c, "uid")
		if !ok {
			return err
		}
		accounts, err := accountSvc.List(c.UserContext(), uid)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", accounts)
	}
}

// GetDrafts returns the user's drafts account.
// @Summary Get drafts account
// @Tags accounts
// @Produce json
// @Param uid path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/drafts/{uid} [get]
// @Security Bearer
func GetDrafts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, ok, err := common.ParamUUID(c, "uid")
		if !ok {
			return err
		}
		drafts, err := accountSvc.GetDrafts(c.UserContext(), uid)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Drafts account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Drafts account fetched", drafts)
	}
}

// GetAccount returns one account of either kind.
// @Summary Get account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/find/{id} [get]
// @Security Bearer
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		acc, err := accountSvc.Get(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", acc)
	}
}

// CreateAccount opens a zero-balance account for the user.
// @Summary Create account
// @Tags accounts
// @Accept json
// @Produce json
// @Param uid path string true "User ID"
// @Param request body CreateAccountInput true "Account data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /accounts/{uid} [post]
// @Security Bearer
func CreateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountInput](c)
		if input == nil {
			return err
		}
		uid, ok, err := common.ParamUUID(c, "uid")
		if !ok {
			return err
		}
		acc, err := accountSvc.Create(c.UserContext(), uid, accountsvc.CreateInput{
			Name:         input.Name,
			StartOfMonth: input.StartOfMonth,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", acc)
	}
}

// UpdateAccount edits name, start of month or the archived flag.
// @Summary Update account
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body UpdateAccountInput true "Account changes"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id} [put]
// @Security Bearer
func UpdateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UpdateAccountInput](c)
		if input == nil {
			return err
		}
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		acc, err := accountSvc.Update(c.UserContext(), id, input.toPatch())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account updated", acc)
	}
}

// DeleteAccount removes an account with its entries and goals.
// @Summary Delete account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /accounts/{id} [delete]
// @Security Bearer
func DeleteAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		if err := accountSvc.Delete(c.UserContext(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account deleted", nil)
	}
}
