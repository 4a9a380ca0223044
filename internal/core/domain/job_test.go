package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

func TestPayoutValue(t *testing.T) {
	tests := []struct {
		name        string
		salaryRange string
		want        string
		wantErr     bool
	}{
		{name: "integer value", salaryRange: "100", want: "100"},
		{name: "two decimal places", salaryRange: "99.50", want: "99.5"},
		{name: "rounded to cents", salaryRange: "10.999", want: "11"},
		{name: "zero is legal", salaryRange: "0", want: "0"},
		{name: "negative rejected", salaryRange: "-5", wantErr: true},
		{name: "free text rejected", salaryRange: "competitive", wantErr: true},
		{name: "empty rejected", salaryRange: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := domain.Job{SalaryRange: tt.salaryRange}
			got, err := job.PayoutValue()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			want, _ := decimal.NewFromString(tt.want)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestRefundAmount(t *testing.T) {
	fee := decimal.NewFromInt(10)

	t.Run("full value when work never started", func(t *testing.T) {
		refund := domain.RefundAmount(decimal.NewFromInt(100), fee, false)
		assert.True(t, refund.Equal(decimal.NewFromInt(100)))
	})

	t.Run("fee withheld once work started", func(t *testing.T) {
		refund := domain.RefundAmount(decimal.NewFromInt(100), fee, true)
		assert.True(t, refund.Equal(decimal.NewFromInt(90)))
	})

	t.Run("floored at zero for small jobs", func(t *testing.T) {
		refund := domain.RefundAmount(decimal.NewFromInt(5), fee, true)
		assert.True(t, refund.IsZero())
	})

	t.Run("zero value job refunds zero", func(t *testing.T) {
		refund := domain.RefundAmount(decimal.Zero, fee, false)
		assert.True(t, refund.IsZero())
	})
}

func TestTransactionIsResolvable(t *testing.T) {
	held := domain.Transaction{Type: domain.Hold, Status: domain.StatusHeld}
	assert.True(t, held.IsResolvable())

	released := domain.Transaction{Type: domain.Hold, Status: domain.StatusCompleted}
	assert.False(t, released.IsResolvable())

	payment := domain.Transaction{Type: domain.Payment, Status: domain.StatusHeld}
	assert.False(t, payment.IsResolvable())
}
