package money

import (
	"testing"

	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryAmount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{name: "integer", input: "10000", want: 10000},
		{name: "ceiling is inclusive", input: "100000000", want: MaxEntryAmount},
		{name: "fraction", input: "10.5", wantErr: ErrAmountNotInteger},
		{name: "zero", input: "0", wantErr: ErrAmountNotPositive},
		{name: "negative", input: "-5", wantErr: ErrAmountNotPositive},
		{name: "over ceiling", input: "100000001", wantErr: ErrAmountTooLarge},
		{name: "trailing zero fraction", input: "42.00", want: 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseEntryAmount(decimal.RequireFromString(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCeilNonNegative(t *testing.T) {
	t.Parallel()
	got, err := CeilNonNegative(decimal.RequireFromString("4999.01"))
	require.NoError(t, err)
	assert.Equal(t, int64(5000), got)

	got, err = CeilNonNegative(decimal.Zero)
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = CeilNonNegative(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrAmountNegative)
}

func TestCeilPositive(t *testing.T) {
	t.Parallel()
	got, err := CeilPositive(decimal.RequireFromString("0.2"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	_, err = CeilPositive(decimal.Zero)
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = CeilPositive(decimal.NewFromInt(MaxEntryAmount + 1))
	assert.ErrorIs(t, err, ErrAmountTooLarge)
}
