package account

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
)

// Sign selects the direction of a balance change.
type Sign string

const (
	Credit Sign = "+"
	Debit  Sign = "-"
)

var ErrInvalidSign = fmt.Errorf("%w: operation must be \"+\" or \"-\"", domain.ErrValidation)

// ParseSign converts the wire form of an operation into a Sign.
func ParseSign(s string) (Sign, error) {
	switch Sign(s) {
	case Credit, Debit:
		return Sign(s), nil
	default:
		return "", ErrInvalidSign
	}
}

// Inverse returns the opposite sign.
func (s Sign) Inverse() Sign {
	if s == Credit {
		return Debit
	}
	return Credit
}

// Signed returns amount with the sign applied.
func (s Sign) Signed(amount int64) int64 {
	if s == Debit {
		return -amount
	}
	return amount
}

// Delta is one signed change to both balances of an account.
type Delta struct {
	AccountID uuid.UUID
	Amount    int64
	Sign      Sign
}

// Value returns the signed amount of the delta.
func (d Delta) Value() int64 {
	return d.Sign.Signed(d.Amount)
}

// MoveDeltas reverses oldAmount on from and applies newAmount on to, where
// sign is the direction the moved item originally applied with.
func MoveDeltas(from, to uuid.UUID, oldAmount, newAmount int64, sign Sign) []Delta {
	return []Delta{
		{AccountID: from, Amount: oldAmount, Sign: sign.Inverse()},
		{AccountID: to, Amount: newAmount, Sign: sign},
	}
}
