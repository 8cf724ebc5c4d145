package goal

import (
	"github.com/gofiber/fiber/v2"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/domain/account"
	"github.com/saveblue/saveblue/pkg/domain/goal"
	"github.com/saveblue/saveblue/pkg/middleware"
	"github.com/saveblue/saveblue/pkg/money"
	authsvc "github.com/saveblue/saveblue/pkg/service/auth"
	goalsvc "github.com/saveblue/saveblue/pkg/service/goal"
	"github.com/saveblue/saveblue/pkg/service/ownership"
	"github.com/saveblue/saveblue/webapi/common"
)

func Routes(
	app *fiber.App,
	goalSvc *goalsvc.Service,
	authSvc *authsvc.Service,
	verifier *ownership.Verifier,
	cfg *config.Auth,
) {
	owned := middleware.VerifyGoal(verifier, "id")
	app.Get("/goals/find/:id", middleware.Protected(cfg, authSvc, owned, GetGoal(goalSvc))...)
	app.Put("/goals/currentAmountChange/:id", middleware.Protected(cfg, authSvc, owned, ChangeAmount(goalSvc))...)
	app.Put("/goals/complete/:id", middleware.Protected(cfg, authSvc, owned, CompleteGoal(goalSvc))...)
	app.Get("/goals/:aid", middleware.Protected(cfg, authSvc,
		middleware.VerifyAccount(verifier, "aid"), ListGoals(goalSvc))...)
	app.Post("/goals/:aid", middleware.Protected(cfg, authSvc,
		middleware.VerifyAccount(verifier, "aid"), CreateGoal(goalSvc))...)
	app.Put("/goals/:id", middleware.Protected(cfg, authSvc, owned, UpdateGoal(goalSvc))...)
	app.Delete("/goals/:id", middleware.Protected(cfg, authSvc, owned, DeleteGoal(goalSvc))...)
}

// ListGoals returns the goals of an account.
// @Summary List goals
// @Tags goals
// @Produce json
// @Param aid path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /goals/{aid} [get]
// @Security Bearer
func ListGoals(goalSvc *goalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aid, ok, err := common.ParamUUID(c, "aid")
		if !ok {
			return err
		}
		goals, err := goalSvc.List(c.UserContext(), aid)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list goals", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Goals fetched", goals)
	}
}

// GetGoal returns one goal.
// @Summary Get goal
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /goals/find/{id} [get]
// @Security Bearer
func GetGoal(goalSvc *goalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		g, err := goalSvc.Get(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Goal not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Goal fetched", g)
	}
}

// CreateGoal adds an empty goal to an account.
// @Summary Create goal
// @Tags goals
// @Accept json
// @Produce json
// @Param aid path string true "Account ID"
// @Param request body CreateGoalInput true "Goal data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /goals/{aid} [post]
// @Security Bearer
func CreateGoal(goalSvc *goalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateGoalInput](c)
		if input == nil {
			return err
		}
		aid, ok, err := common.ParamUUID(c, "aid")
		if !ok {
			return err
		}
		amount, err := money.CeilNonNegative(input.GoalAmount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid goal amount", err)
		}
		g, err := goalSvc.Create(c.UserContext(), aid, input.Name, input.Description, amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create goal", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Goal created", g)
	}
}

// UpdateGoal edits name, description or goal amount.
// @Summary Update goal
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body UpdateGoalInput true "Goal changes"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /goals/{id} [put]
// @Security Bearer
func UpdateGoal(goalSvc *goalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UpdateGoalInput](c)
		if input == nil {
			return err
		}
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		patch := goal.Patch{Name: input.Name, Description: input.Description}
		if input.GoalAmount != nil {
			amount, err := money.CeilNonNegative(*input.GoalAmount)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid goal amount", err)
			}
			patch.GoalAmount = &amount
		}
		g, err := goalSvc.Update(c.UserContext(), id, patch)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update goal", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Goal updated", g)
	}
}

// ChangeAmount reserves or releases money on a goal.
// @Summary Change goal reservation
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body AmountChangeInput true "Reservation change"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /goals/currentAmountChange/{id} [put]
// @Security Bearer
func ChangeAmount(goalSvc *goalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[AmountChangeInput](c)
		if input == nil {
			return err
		}
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		sign, err := account.ParseSign(input.Operation)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid operation", err)
		}
		amount, err := money.CeilPositive(input.CurrentAmountChange)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}
		g, err := goalSvc.ApplyGoalDelta(c.UserContext(), id, amount, sign)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to change goal amount", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Goal amount changed", g)
	}
}

// CompleteGoal releases the reservation and freezes the goal.
// @Summary Complete goal
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /goals/complete/{id} [put]
// @Security Bearer
func CompleteGoal(goalSvc *goalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		g, err := goalSvc.Complete(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to complete goal", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Goal completed", g)
	}
}

// DeleteGoal removes a goal after releasing what it reserves.
// @Summary Delete goal
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /goals/{id} [delete]
// @Security Bearer
func DeleteGoal(goalSvc *goalsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := common.ParamUUID(c, "id")
		if !ok {
			return err
		}
		if err := goalSvc.Delete(c.UserContext(), id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete goal", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Goal deleted", nil)
	}
}
