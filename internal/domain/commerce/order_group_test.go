package commerce

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderGroup(t *testing.T, total string) *OrderGroup {
	t.Helper()
	group, err := NewOrderGroup(uuid.New(), decimal.RequireFromString(total), true)
	require.NoError(t, err)
	return group
}

func TestNewOrderGroup(t *testing.T) {
	group := newTestOrderGroup(t, "35.00")

	assert.Equal(t, OrderGroupStatusCreated, group.Status)
	assert.True(t, group.CreatedFromCart)
	assert.True(t, group.DiscountAmount.IsZero())

	_, err := NewOrderGroup(uuid.Nil, decimal.NewFromInt(10), true)
	assert.Error(t, err)
}

func TestOrderGroupAddTransaction(t *testing.T) {
	group := newTestOrderGroup(t, "35.00")
	txID := uuid.New()

	require.NoError(t, group.AddTransaction(txID))
	assert.Len(t, group.Items, 1)

	t.Run("rejects duplicate transaction", func(t *testing.T) {
		err := group.AddTransaction(txID)
		assert.Error(t, err)
	})

	t.Run("rejects additions after processing starts", func(t *testing.T) {
		require.NoError(t, group.StartProcessing())
		err := group.AddTransaction(uuid.New())
		assert.Error(t, err)
	})
}

func TestOrderGroupApplyDiscount(t *testing.T) {
	t.Run("applies discount and reduces payable amount", func(t *testing.T) {
		group := newTestOrderGroup(t, "35.00")

		err := group.ApplyDiscount(uuid.New(), decimal.RequireFromString("5.00"))

		require.NoError(t, err)
		assert.True(t, group.PayableAmount().Equal(decimal.RequireFromString("30.00")))
	})

	t.Run("caps discount at order total", func(t *testing.T) {
		group := newTestOrderGroup(t, "10.00")

		err := group.ApplyDiscount(uuid.New(), decimal.RequireFromString("50.00"))

		require.NoError(t, err)
		assert.True(t, group.DiscountAmount.Equal(decimal.RequireFromString("10.00")))
		assert.True(t, group.PayableAmount().IsZero())
	})

	t.Run("rejects discount after processing starts", func(t *testing.T) {
		group := newTestOrderGroup(t, "10.00")
		require.NoError(t, group.StartProcessing())

		err := group.ApplyDiscount(uuid.New(), decimal.NewFromInt(1))
		assert.Error(t, err)
	})
}

func TestOrderGroupLifecycle(t *testing.T) {
	t.Run("created through processing to completed", func(t *testing.T) {
		group := newTestOrderGroup(t, "35.00")

		require.NoError(t, group.StartProcessing())
		require.NoError(t, group.Complete())
		assert.Equal(t, OrderGroupStatusCompleted, group.Status)
	})

	t.Run("partial completion from processing", func(t *testing.T) {
		group := newTestOrderGroup(t, "35.00")

		require.NoError(t, group.StartProcessing())
		require.NoError(t, group.CompletePartially())
		assert.Equal(t, OrderGroupStatusPartiallyCompleted, group.Status)
	})

	t.Run("cannot complete without processing", func(t *testing.T) {
		group := newTestOrderGroup(t, "35.00")
		assert.Error(t, group.Complete())
	})

	t.Run("cancel from created or processing", func(t *testing.T) {
		group := newTestOrderGroup(t, "35.00")
		require.NoError(t, group.Cancel())

		group2 := newTestOrderGroup(t, "35.00")
		require.NoError(t, group2.StartProcessing())
		require.NoError(t, group2.Cancel())
	})

	t.Run("terminal states reject transitions", func(t *testing.T) {
		group := newTestOrderGroup(t, "35.00")
		require.NoError(t, group.Cancel())
		assert.Error(t, group.StartProcessing())
	})
}
