package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	t.Run("transaction fee payment references its transaction", func(t *testing.T) {
		txID := uuid.New()
		payment, err := NewTransactionFeePayment(uuid.New(), txID, uuid.New(), decimal.RequireFromString("1.25"))

		require.NoError(t, err)
		assert.Equal(t, PaymentTypeTransactionFee, payment.PaymentType)
		assert.Equal(t, PaymentStatusPending, payment.Status)
		require.NotNil(t, payment.TransactionID)
		assert.Equal(t, txID, *payment.TransactionID)
		assert.Nil(t, payment.SubscriptionID)
	})

	t.Run("subscription payment references its subscription", func(t *testing.T) {
		subID := uuid.New()
		payment, err := NewSubscriptionPayment(uuid.New(), subID, uuid.New(), decimal.RequireFromString("9.99"))

		require.NoError(t, err)
		assert.Equal(t, PaymentTypeSubscription, payment.PaymentType)
		require.NotNil(t, payment.SubscriptionID)
		assert.Equal(t, subID, *payment.SubscriptionID)
		assert.Nil(t, payment.TransactionID)
	})

	t.Run("rejects missing references", func(t *testing.T) {
		_, err := NewTransactionFeePayment(uuid.New(), uuid.Nil, uuid.New(), decimal.NewFromInt(1))
		assert.Error(t, err)

		_, err = NewSubscriptionPayment(uuid.New(), uuid.Nil, uuid.New(), decimal.NewFromInt(1))
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewTransactionFeePayment(uuid.New(), uuid.New(), uuid.New(), decimal.Zero)
		assert.Error(t, err)
	})
}

func TestPaymentLifecycle(t *testing.T) {
	newPending := func(t *testing.T) *Payment {
		payment, err := NewTransactionFeePayment(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(5))
		require.NoError(t, err)
		return payment
	}

	t.Run("pending to completed", func(t *testing.T) {
		payment := newPending(t)

		require.NoError(t, payment.Complete("pi_123"))
		assert.Equal(t, PaymentStatusCompleted, payment.Status)
		require.NotNil(t, payment.ExternalReference)
		assert.Equal(t, "pi_123", *payment.ExternalReference)

		events := payment.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*PaymentCompletedEvent)
		assert.True(t, ok)
	})

	t.Run("pending to failed", func(t *testing.T) {
		payment := newPending(t)

		require.NoError(t, payment.Fail("card declined"))
		assert.Equal(t, PaymentStatusFailed, payment.Status)
		require.NotNil(t, payment.Notes)

		events := payment.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*PaymentFailedEvent)
		assert.True(t, ok)
	})

	t.Run("refunds only after completion", func(t *testing.T) {
		payment := newPending(t)
		assert.Error(t, payment.Refund())

		require.NoError(t, payment.Complete(""))
		require.NoError(t, payment.RefundPartially())
		require.NoError(t, payment.Refund())
		assert.Equal(t, PaymentStatusRefunded, payment.Status)
	})

	t.Run("failed is terminal", func(t *testing.T) {
		payment := newPending(t)
		require.NoError(t, payment.Fail(""))
		assert.Error(t, payment.Complete(""))
		assert.Error(t, payment.Refund())
	})
}
