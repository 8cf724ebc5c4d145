package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/service/ownership"
	"github.com/saveblue/saveblue/webapi/common"
)

type check func(ctx context.Context, subject, id uuid.UUID) error

// verifyParam runs fn on the path parameter param for the current subject.
func verifyParam(param string, fn check) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, ok := Subject(c)
		if !ok {
			return common.ProblemDetailsJSON(c, "Unauthorized", domain.ErrUnauthorized, "missing user context")
		}
		id, ok, err := common.ParamUUID(c, param)
		if !ok {
			return err
		}
		if err := fn(c.UserContext(), subject, id); err != nil {
			return common.ProblemDetailsJSON(c, "Access denied", err)
		}
		return c.Next()
	}
}

// VerifyUser requires the path user to be the subject.
func VerifyUser(v *ownership.Verifier, param string) fiber.Handler {
	return verifyParam(param, v.User)
}

// VerifyAccount requires a regular account owned by the subject.
func VerifyAccount(v *ownership.Verifier, param string) fiber.Handler {
	return verifyParam(param, v.Account)
}

// VerifyAccountOrDrafts accepts either account kind owned by the subject.
func VerifyAccountOrDrafts(v *ownership.Verifier, param string) fiber.Handler {
	return verifyParam(param, v.AccountOrDrafts)
}

// VerifyEntry requires an entry of kind created by the subject.
func VerifyEntry(v *ownership.Verifier, kind entry.Kind, param string) fiber.Handler {
	return verifyParam(param, func(ctx context.Context, subject, id uuid.UUID) error {
		return v.Entry(ctx, subject, kind, id)
	})
}

// VerifyGoal requires a goal on one of the subject's accounts.
func VerifyGoal(v *ownership.Verifier, param string) fiber.Handler {
	return verifyParam(param, v.Goal)
}

type entryOwner struct {
	UserID    uuid.UUID `json:"userID"`
	AccountID uuid.UUID `json:"accountID"`
}

// VerifyEntryCreation peeks at userID and accountID in the request body.
func VerifyEntryCreation(v *ownership.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, ok := Subject(c)
		if !ok {
			return common.ProblemDetailsJSON(c, "Unauthorized", domain.ErrUnauthorized, "missing user context")
		}
		var body entryOwner
		if err := c.BodyParser(&body); err != nil {
			return common.ProblemDetailsJSON(c, "Invalid request body", nil, err.Error(), fiber.StatusBadRequest)
		}
		if err := v.EntryCreation(c.UserContext(), subject, body.UserID, body.AccountID); err != nil {
			return common.ProblemDetailsJSON(c, "Access denied", err)
		}
		return c.Next()
	}
}
