package payment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
)

func newPendingPayment(t *testing.T) *Payment {
	t.Helper()
	p, err := NewPayment(uuid.New(), uuid.New(), 150000, domain.CurrencyAED, "card")
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	p := newPendingPayment(t)
	assert.Equal(t, StatusPending, p.Status())
	assert.Nil(t, p.RefundAmountFils())

	_, err := NewPayment(uuid.Nil, uuid.New(), 150000, domain.CurrencyAED, "card")
	assert.Error(t, err)

	_, err = NewPayment(uuid.New(), uuid.New(), 0, domain.CurrencyAED, "card")
	assert.Error(t, err)
}

func TestPaymentMarkCompleted(t *testing.T) {
	p := newPendingPayment(t)
	require.NoError(t, p.MarkCompleted("txn_1028"))
	assert.Equal(t, StatusCompleted, p.Status())
	assert.Equal(t, "txn_1028", p.TransactionID())

	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, p.MarkCompleted("txn_1029"), &stateErr)
}

func TestPaymentMarkFailed(t *testing.T) {
	p := newPendingPayment(t)
	require.NoError(t, p.MarkFailed())
	assert.Equal(t, StatusFailed, p.Status())

	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, p.MarkCompleted("txn_late"), &stateErr)
}

func TestPaymentMarkRefunded(t *testing.T) {
	t.Run("refunds the full amount", func(t *testing.T) {
		p := newPendingPayment(t)
		require.NoError(t, p.MarkCompleted("txn_1028"))
		require.NoError(t, p.MarkRefunded("booking cancelled"))

		assert.Equal(t, StatusRefunded, p.Status())
		require.NotNil(t, p.RefundAmountFils())
		assert.Equal(t, p.AmountFils(), *p.RefundAmountFils())
		assert.Equal(t, "booking cancelled", p.RefundReason())
	})

	t.Run("only completed payments can be refunded", func(t *testing.T) {
		p := newPendingPayment(t)
		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, p.MarkRefunded("too early"), &stateErr)
	})
}

func TestParsePaymentStatus(t *testing.T) {
	status, err := ParsePaymentStatus("refunded")
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, status)

	_, err = ParsePaymentStatus("unknown")
	assert.Error(t, err)
}
