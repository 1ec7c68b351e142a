package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueAddOverflow(t *testing.T) {
	_, err := Value(math.MaxUint64).Add(1)
	require.ErrorIs(t, err, ErrValueOverflow)

	sum, err := Value(5).Add(10)
	require.NoError(t, err)
	require.Equal(t, Value(15), sum)
}

func TestValueSubUnderflow(t *testing.T) {
	_, err := Value(5).Sub(10)
	require.ErrorIs(t, err, ErrValueUnderflow)

	diff, err := Value(10).Sub(4)
	require.NoError(t, err)
	require.Equal(t, Value(6), diff)
}

func TestSumValues(t *testing.T) {
	total, err := SumValues([]Value{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, Value(6), total)

	_, err = SumValues([]Value{math.MaxUint64, 1})
	require.ErrorIs(t, err, ErrValueOverflow)
}
