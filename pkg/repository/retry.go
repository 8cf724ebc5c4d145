package repository

import (
	"context"
	"errors"

	"github.com/saveblue/saveblue/pkg/domain"
)

// Retry runs fn in a unit of work of uow, starting over while it fails with
// domain.ErrConcurrentUpdate. onConflict, when set, is called before every
// rerun. After attempts runs the last conflict is returned.
func Retry(ctx context.Context, uow UnitOfWork, attempts int, onConflict func(), fn func(uow UnitOfWork) error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = uow.Do(ctx, fn)
		if !errors.Is(err, domain.ErrConcurrentUpdate) {
			return err
		}
		if attempt < attempts && onConflict != nil {
			onConflict()
		}
	}
	return err
}
