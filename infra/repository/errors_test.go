package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection reset")
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{name: "nil", input: nil, expected: nil},
		{name: "duplicate key", input: gorm.ErrDuplicatedKey, expected: domain.ErrAlreadyExists},
		{name: "record not found", input: gorm.ErrRecordNotFound, expected: domain.ErrNotFound},
		{name: "joined duplicate key", input: errors.Join(errors.New("outer"), gorm.ErrDuplicatedKey), expected: domain.ErrAlreadyExists},
		{name: "foreign key violated", input: gorm.ErrForeignKeyViolated, expected: domain.ErrNotFound},
		{name: "wrapped not found", input: fmt.Errorf("load account: %w", gorm.ErrRecordNotFound), expected: domain.ErrNotFound},
		{name: "unrelated error passes through", input: plain, expected: plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MapGormErrorToDomain(tt.input)
			if tt.expected == nil {
				require.NoError(t, result)
				return
			}
			assert.ErrorIs(t, result, tt.expected)
		})
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	require.NoError(t, WrapError(func() error { return nil }))
	assert.ErrorIs(t, WrapError(func() error { return gorm.ErrDuplicatedKey }), domain.ErrAlreadyExists)
	assert.EqualError(t, WrapError(func() error { return errors.New("custom error") }), "custom error")
}

func TestAffected(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, affected(&gorm.DB{RowsAffected: 0}), domain.ErrNotFound)
	assert.NoError(t, affected(&gorm.DB{RowsAffected: 1}))
	assert.ErrorIs(t, affected(&gorm.DB{Error: gorm.ErrRecordNotFound}), domain.ErrNotFound)
}
