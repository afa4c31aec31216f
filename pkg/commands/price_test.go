package commands

import (
	"testing"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleDecimal(t *testing.T) {
	cases := []struct {
		in     string
		places int32
		want   string
	}{
		{"1.23456", 5, "123456"},
		{"1.2", 5, "120000"},
		{"0", 3, "0"},
		{"42", 0, "42"},
		{"0.00001", 5, "1"},
		{"-0.5", 1, "-5"},
	}
	for _, tc := range cases {
		got, err := ScaleString(tc.in, tc.places)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestScaleDecimalRejectsExtraPrecision(t *testing.T) {
	_, err := ScaleDecimal(decimal.RequireFromString("1.234567"), 5)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRequest))

	_, err = ScaleDecimal(decimal.NewFromInt(1), -1)
	assert.Error(t, err)

	_, err = ScaleString("one", 2)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRequest))
}

func TestUnscaleDecimal(t *testing.T) {
	d, err := UnscaleDecimal("123456", 5)
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1.23456")), d.String())

	_, err = UnscaleDecimal("12.5", 2)
	assert.Error(t, err)
	_, err = UnscaleDecimal("", 2)
	assert.Error(t, err)
}

func TestItemsAndMarketIDs(t *testing.T) {
	batch := BatchMarketInstructions{
		Cancellations: []OrderCancellation{NewCancellation("a", "m1")},
		Amendments:    []OrderAmendment{{OrderID: "b", MarketID: "m2"}},
		Submissions:   []OrderSubmission{{MarketID: "m1"}, {MarketID: "m3"}},
	}
	assert.Equal(t, 4, Items(batch))
	assert.Equal(t, 4, Items(&batch))
	assert.Equal(t, []string{"m1", "m2", "m3"}, MarketIDs(batch))

	assert.Equal(t, 1, Items(NewVote("p", VoteValueYes)))
	assert.Empty(t, MarketIDs(NewVote("p", VoteValueYes)))
	assert.Equal(t, 0, Items(nil))

	c := NewCancellation("o", "m9")
	assert.Equal(t, []string{"m9"}, MarketIDs(&c))
}
