package commands

import (
	"encoding/json"
	"testing"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumTags(t *testing.T) {
	cases := []struct {
		value json.Marshaler
		tag   string
	}{
		{jsonText{SideUnspecified}, "SIDE_UNSPECIFIED"},
		{jsonText{SideBuy}, "SIDE_BUY"},
		{jsonText{SideSell}, "SIDE_SELL"},

		{jsonText{OrderTypeUnspecified}, "TYPE_UNSPECIFIED"},
		{jsonText{OrderTypeLimit}, "TYPE_LIMIT"},
		{jsonText{OrderTypeMarket}, "TYPE_MARKET"},
		{jsonText{OrderTypeNetwork}, "TYPE_NETWORK"},

		{jsonText{TimeInForceUnspecified}, "TIME_IN_FORCE_UNSPECIFIED"},
		{jsonText{TimeInForceGTC}, "TIME_IN_FORCE_GTC"},
		{jsonText{TimeInForceGTT}, "TIME_IN_FORCE_GTT"},
		{jsonText{TimeInForceIOC}, "TIME_IN_FORCE_IOC"},
		{jsonText{TimeInForceFOK}, "TIME_IN_FORCE_FOK"},
		{jsonText{TimeInForceGFA}, "TIME_IN_FORCE_GFA"},
		{jsonText{TimeInForceGFN}, "TIME_IN_FORCE_GFN"},

		{jsonText{PeggedReferenceUnspecified}, "PEGGED_REFERENCE_UNSPECIFIED"},
		{jsonText{PeggedReferenceMid}, "PEGGED_REFERENCE_MID"},
		{jsonText{PeggedReferenceBestBid}, "PEGGED_REFERENCE_BEST_BID"},
		{jsonText{PeggedReferenceBestAsk}, "PEGGED_REFERENCE_BEST_ASK"},

		{jsonText{VoteValueUnspecified}, "VALUE_UNSPECIFIED"},
		{jsonText{VoteValueNo}, "VALUE_NO"},
		{jsonText{VoteValueYes}, "VALUE_YES"},
	}
	for _, tc := range cases {
		out, err := tc.value.MarshalJSON()
		require.NoError(t, err, tc.tag)
		assert.Equal(t, `"`+tc.tag+`"`, string(out))
	}
}

// jsonText adapts any enum to json.Marshaler for the table above.
type jsonText struct{ v any }

func (j jsonText) MarshalJSON() ([]byte, error) { return json.Marshal(j.v) }

func TestEnumDecodeRoundTrip(t *testing.T) {
	for v := TimeInForceUnspecified; v <= TimeInForceGFN; v++ {
		got, err := ParseTimeInForce(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	for v := SideUnspecified; v <= SideSell; v++ {
		got, err := ParseSide(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	for v := OrderTypeUnspecified; v <= OrderTypeNetwork; v++ {
		got, err := ParseOrderType(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	for v := PeggedReferenceUnspecified; v <= PeggedReferenceBestAsk; v++ {
		got, err := ParsePeggedReference(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	for v := VoteValueUnspecified; v <= VoteValueYes; v++ {
		got, err := ParseVoteValue(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestEnumDecodeRejectsUnknownTags(t *testing.T) {
	for _, tag := range []string{"", "BUY", "side_buy", "SIDE_BUY ", "SIDE_HOLD", "TIME_IN_FORCE_GTC"} {
		_, err := ParseSide(tag)
		assert.True(t, apperrors.Is(err, apperrors.ErrDecode), "tag %q", tag)
	}

	var s struct {
		Side Side `json:"side"`
	}
	s.Side = SideSell
	err := json.Unmarshal([]byte(`{"side":"SIDE_SIDEWAYS"}`), &s)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDecode))
	assert.Equal(t, SideSell, s.Side, "failed decode must not overwrite with Unspecified")

	var v VoteValue
	assert.Error(t, json.Unmarshal([]byte(`2`), &v), "integer tags are not accepted for string enums")
}

func TestEnumDecodeRejectsNull(t *testing.T) {
	var s struct {
		Side  Side      `json:"side"`
		Type  OrderType `json:"type"`
		Value VoteValue `json:"value"`
	}
	s.Side = SideBuy
	err := json.Unmarshal([]byte(`{"side":null}`), &s)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDecode))
	assert.Equal(t, SideBuy, s.Side)

	assert.True(t, apperrors.Is(json.Unmarshal([]byte(`{"type":null}`), &s), apperrors.ErrDecode))
	assert.True(t, apperrors.Is(json.Unmarshal([]byte(`{"value":null}`), &s), apperrors.ErrDecode))

	var tif TimeInForce
	assert.True(t, apperrors.Is(tif.UnmarshalJSON([]byte(`null`)), apperrors.ErrDecode))
	var ref PeggedReference
	require.NoError(t, ref.UnmarshalJSON([]byte(`"PEGGED_REFERENCE_MID"`)))
	assert.Equal(t, PeggedReferenceMid, ref)
}

func TestEnumEncodeOutOfRangeIsSchemaError(t *testing.T) {
	_, err := json.Marshal(Side(7))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSchema))
	assert.Equal(t, "side(7)", Side(7).String())

	_, err = TimeInForce(-1).MarshalText()
	assert.True(t, apperrors.Is(err, apperrors.ErrSchema))
}
