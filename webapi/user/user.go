package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/middleware"
	authsvc "github.com/saveblue/saveblue/pkg/service/auth"
	"github.com/saveblue/saveblue/pkg/service/ownership"
	usersvc "github.com/saveblue/saveblue/pkg/service/user"
	"github.com/saveblue/saveblue/webapi/common"
)

func Routes(
	app *fiber.App,
	userSvc *usersvc.Service,
	authSvc *authsvc.Service,
	verifier *ownership.Verifier,
	cfg *config.Auth,
) {
	self := middleware.VerifyUser(verifier, "id")
	app.Get("/users/:id", middleware.Protected(cfg, authSvc, self, GetUser(userSvc))...)
	app.Put("/users/:id", middleware.Protected(cfg, authSvc, self, UpdateUser(userSvc, authSvc))...)
	app.Delete("/users/:id", middleware.Protected(cfg, authSvc, self, DeleteUser(userSvc))...)
}

// GetUser returns the authenticated user's profile.
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /users/{id} [get]
// @Security Bearer
func GetUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		u, err := userSvc.Get(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "User not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", u)
	}
}

// UpdateUser changes the profile, then swaps the caller's token for a fresh one.
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserInput true "Profile changes"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /users/{id} [put]
// @Security Bearer
func UpdateUser(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UpdateUserInput](c)
		if input == nil {
			return err
		}
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		u, err := userSvc.Update(c.UserContext(), id, input.toPatch())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't update user", err)
		}
		token, err := authSvc.IssueToken(c.UserContext(), u.ID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		if err := authSvc.Revoke(c.UserContext(), middleware.RawToken(c)); err != nil {
			log.Errorf("Failed to revoke previous token: %v", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User updated", fiber.Map{"token": token, "user": u})
	}
}

// DeleteUser removes the user with all of their accounts, entries and goals.
// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /users/{id} [delete]
// @Security Bearer
func DeleteUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		if err := userSvc.Delete(c.UserContext(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't delete user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User deleted", nil)
	}
}
