package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulQuantity_Exact(t *testing.T) {
	// 0.1 * 3 must be exactly 0.3, not 0.30000000000000004.
	price := MustMoney("0.10")
	assert.Equal(t, "0.30", MulQuantity(price, 3).StringFixed(2))

	price = MustMoney("19.99")
	assert.Equal(t, "1999.00", MulQuantity(price, 100).StringFixed(2))
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("123.45")
	require.NoError(t, err)
	assert.Equal(t, "123.45", m.StringFixed(2))

	_, err = NewMoneyFromString("not money")
	assert.Error(t, err)
}

func TestZeroMoney(t *testing.T) {
	assert.True(t, ZeroMoney().IsZero())
}
