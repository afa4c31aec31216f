package commands

import (
	"encoding/json"
	"fmt"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
)

// enumCodec maps the in-memory value of a fixed-vocabulary field to its wire
// tag and back. Values index into tags, so every variant has exactly one tag.
type enumCodec[T ~int32] struct {
	name  string
	tags  []string
	byTag map[string]T
}

func newEnumCodec[T ~int32](name string, tags ...string) enumCodec[T] {
	byTag := make(map[string]T, len(tags))
	for i, tag := range tags {
		byTag[tag] = T(i)
	}
	return enumCodec[T]{name: name, tags: tags, byTag: byTag}
}

func (c enumCodec[T]) valid(v T) bool {
	return v >= 0 && int(v) < len(c.tags)
}

func (c enumCodec[T]) str(v T) string {
	if !c.valid(v) {
		return fmt.Sprintf("%s(%d)", c.name, int32(v))
	}
	return c.tags[v]
}

func (c enumCodec[T]) encode(v T) ([]byte, error) {
	if !c.valid(v) {
		return nil, apperrors.NewSchema(fmt.Sprintf("%s: no wire tag for value %d", c.name, int32(v)))
	}
	return []byte(c.tags[v]), nil
}

// decode never coerces: an unknown tag is an error, not the Unspecified value.
func (c enumCodec[T]) decode(text []byte) (T, error) {
	v, ok := c.byTag[string(text)]
	if !ok {
		return 0, apperrors.NewDecode(fmt.Sprintf("%s: unknown tag %q", c.name, string(text)), nil)
	}
	return v, nil
}

// Side is the direction of an order.
type Side int32

const (
	SideUnspecified Side = iota
	SideBuy
	SideSell
)

var sideCodec = newEnumCodec[Side]("side",
	"SIDE_UNSPECIFIED",
	"SIDE_BUY",
	"SIDE_SELL",
)

func (s Side) String() string                { return sideCodec.str(s) }
func (s Side) MarshalText() ([]byte, error)  { return sideCodec.encode(s) }
func (s *Side) UnmarshalText(b []byte) error { return decodeInto(sideCodec, b, s) }
func (s *Side) UnmarshalJSON(b []byte) error { return decodeJSONInto(sideCodec, b, s) }

func ParseSide(tag string) (Side, error) { return sideCodec.decode([]byte(tag)) }

// OrderType selects limit, market or network order handling.
type OrderType int32

const (
	OrderTypeUnspecified OrderType = iota
	OrderTypeLimit
	OrderTypeMarket
	// OrderTypeNetwork is used by the network itself for distressed parties.
	OrderTypeNetwork
)

var orderTypeCodec = newEnumCodec[OrderType]("order type",
	"TYPE_UNSPECIFIED",
	"TYPE_LIMIT",
	"TYPE_MARKET",
	"TYPE_NETWORK",
)

func (t OrderType) String() string                { return orderTypeCodec.str(t) }
func (t OrderType) MarshalText() ([]byte, error)  { return orderTypeCodec.encode(t) }
func (t *OrderType) UnmarshalText(b []byte) error { return decodeInto(orderTypeCodec, b, t) }
func (t *OrderType) UnmarshalJSON(b []byte) error { return decodeJSONInto(orderTypeCodec, b, t) }

func ParseOrderType(tag string) (OrderType, error) { return orderTypeCodec.decode([]byte(tag)) }

// TimeInForce says how long an order stays active. In an amendment,
// TimeInForceUnspecified means "leave unchanged".
type TimeInForce int32

const (
	TimeInForceUnspecified TimeInForce = iota
	// TimeInForceGTC: good until cancelled.
	TimeInForceGTC
	// TimeInForceGTT: good until ExpiresAt.
	TimeInForceGTT
	// TimeInForceIOC: immediate or cancel, never rests on the book.
	TimeInForceIOC
	// TimeInForceFOK: fill completely or not at all.
	TimeInForceFOK
	// TimeInForceGFA: only accepted during an auction.
	TimeInForceGFA
	// TimeInForceGFN: only accepted during normal trading.
	TimeInForceGFN
)

var timeInForceCodec = newEnumCodec[TimeInForce]("time in force",
	"TIME_IN_FORCE_UNSPECIFIED",
	"TIME_IN_FORCE_GTC",
	"TIME_IN_FORCE_GTT",
	"TIME_IN_FORCE_IOC",
	"TIME_IN_FORCE_FOK",
	"TIME_IN_FORCE_GFA",
	"TIME_IN_FORCE_GFN",
)

func (t TimeInForce) String() string                { return timeInForceCodec.str(t) }
func (t TimeInForce) MarshalText() ([]byte, error)  { return timeInForceCodec.encode(t) }
func (t *TimeInForce) UnmarshalText(b []byte) error { return decodeInto(timeInForceCodec, b, t) }
func (t *TimeInForce) UnmarshalJSON(b []byte) error { return decodeJSONInto(timeInForceCodec, b, t) }

func ParseTimeInForce(tag string) (TimeInForce, error) {
	return timeInForceCodec.decode([]byte(tag))
}

// PeggedReference is the price point a pegged order tracks.
type PeggedReference int32

const (
	PeggedReferenceUnspecified PeggedReference = iota
	PeggedReferenceMid
	PeggedReferenceBestBid
	PeggedReferenceBestAsk
)

var peggedReferenceCodec = newEnumCodec[PeggedReference]("pegged reference",
	"PEGGED_REFERENCE_UNSPECIFIED",
	"PEGGED_REFERENCE_MID",
	"PEGGED_REFERENCE_BEST_BID",
	"PEGGED_REFERENCE_BEST_ASK",
)

func (r PeggedReference) String() string                { return peggedReferenceCodec.str(r) }
func (r PeggedReference) MarshalText() ([]byte, error)  { return peggedReferenceCodec.encode(r) }
func (r *PeggedReference) UnmarshalText(b []byte) error { return decodeInto(peggedReferenceCodec, b, r) }
func (r *PeggedReference) UnmarshalJSON(b []byte) error { return decodeJSONInto(peggedReferenceCodec, b, r) }

func ParsePeggedReference(tag string) (PeggedReference, error) {
	return peggedReferenceCodec.decode([]byte(tag))
}

// VoteValue is a governance vote.
type VoteValue int32

const (
	VoteValueUnspecified VoteValue = iota
	VoteValueNo
	VoteValueYes
)

var voteValueCodec = newEnumCodec[VoteValue]("vote value",
	"VALUE_UNSPECIFIED",
	"VALUE_NO",
	"VALUE_YES",
)

func (v VoteValue) String() string                { return voteValueCodec.str(v) }
func (v VoteValue) MarshalText() ([]byte, error)  { return voteValueCodec.encode(v) }
func (v *VoteValue) UnmarshalText(b []byte) error { return decodeInto(voteValueCodec, b, v) }
func (v *VoteValue) UnmarshalJSON(b []byte) error { return decodeJSONInto(voteValueCodec, b, v) }

func ParseVoteValue(tag string) (VoteValue, error) { return voteValueCodec.decode([]byte(tag)) }

// decodeJSONInto accepts only a JSON string holding a known tag; null is an
// error rather than the Unspecified value.
func decodeJSONInto[T ~int32](c enumCodec[T], b []byte, dst *T) error {
	var tag *string
	if err := json.Unmarshal(b, &tag); err != nil {
		return apperrors.NewDecode(c.name+": tag must be a JSON string", err)
	}
	if tag == nil {
		return apperrors.NewDecode(c.name+": null is not a tag", nil)
	}
	return decodeInto(c, []byte(*tag), dst)
}

func decodeInto[T ~int32](c enumCodec[T], b []byte, dst *T) error {
	v, err := c.decode(b)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
