package entry

import (
	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain/account"
)

// PlanCreate returns the balance change caused by recording e.
func PlanCreate(e *Entry) []account.Delta {
	return []account.Delta{{AccountID: e.AccountID, Amount: e.Amount, Sign: e.Kind.CreateSign()}}
}

// PlanDelete returns the change that undoes e's effect on its account.
func PlanDelete(e *Entry) []account.Delta {
	return []account.Delta{{AccountID: e.AccountID, Amount: e.Amount, Sign: e.Kind.CreateSign().Inverse()}}
}

// PlanUpdate returns the deltas for an edit of an entry of kind k.
//
// On the same account only the difference is applied, and nothing at all when
// the amount is unchanged. When the account changes the old effect is fully
// reversed on the old account and the new effect fully applied on the new one.
func PlanUpdate(k Kind, oldAccount uuid.UUID, oldAmount int64, newAccount uuid.UUID, newAmount int64) []account.Delta {
	sign := k.CreateSign()
	if oldAccount != newAccount {
		return account.MoveDeltas(oldAccount, newAccount, oldAmount, newAmount, sign)
	}
	diff := newAmount - oldAmount
	switch {
	case diff == 0:
		return nil
	case diff > 0:
		return []account.Delta{{AccountID: oldAccount, Amount: diff, Sign: sign}}
	default:
		return []account.Delta{{AccountID: oldAccount, Amount: -diff, Sign: sign.Inverse()}}
	}
}
