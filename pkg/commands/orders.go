package commands

import "encoding/json"

// PeggedOrder prices a limit order as Reference +/- Offset. Offset is a
// fixed-point integer string like OrderSubmission.Price.
type PeggedOrder struct {
	Reference PeggedReference `json:"reference"`
	Offset    string          `json:"offset"`
}

// OrderSubmission creates a new order.
//
// Price is the market's fixed-point integer rendered as a decimal string:
// "123456" is 1.23456 on a market with 5 decimal places. Limit orders need
// it; market orders may leave it empty. No cross-field rule is enforced
// here, the network validates business constraints.
type OrderSubmission struct {
	MarketID    string      `json:"marketId"`
	Price       string      `json:"price"`
	Size        uint64      `json:"size"`
	Side        Side        `json:"side"`
	TimeInForce TimeInForce `json:"timeInForce"`
	// ExpiresAt is nanoseconds since the epoch, only read for TimeInForceGTT.
	ExpiresAt int64     `json:"expiresAt"`
	Type      OrderType `json:"type"`
	// Reference is a caller label; the node may overwrite it.
	Reference   string       `json:"reference"`
	PeggedOrder *PeggedOrder `json:"peggedOrder"`
}

func (p *PeggedOrder) UnmarshalJSON(data []byte) error {
	if _, err := checkFields("pegged order", data, []string{"reference", "offset"}); err != nil {
		return err
	}
	type wire PeggedOrder
	return json.Unmarshal(data, (*wire)(p))
}

// UnmarshalJSON requires every field except peggedOrder.
func (o *OrderSubmission) UnmarshalJSON(data []byte) error {
	required := []string{"marketId", "price", "size", "side", "timeInForce", "expiresAt", "type", "reference"}
	if _, err := checkFields("order submission", data, required, "peggedOrder"); err != nil {
		return err
	}
	type wire OrderSubmission
	return json.Unmarshal(data, (*wire)(o))
}

// OrderCancellation cancels a whole order. Both ids are lookup keys.
type OrderCancellation struct {
	OrderID  string `json:"orderId"`
	MarketID string `json:"marketId"`
}

func (c *OrderCancellation) UnmarshalJSON(data []byte) error {
	if _, err := checkFields("order cancellation", data, []string{"orderId", "marketId"}); err != nil {
		return err
	}
	type wire OrderCancellation
	return json.Unmarshal(data, (*wire)(c))
}

// NewCancellation builds an OrderCancellation command.
func NewCancellation(orderID, marketID string) OrderCancellation {
	return OrderCancellation{OrderID: orderID, MarketID: marketID}
}

// OrderAmendment updates an existing order. OrderID and MarketID only locate
// the order and are never changed.
//
// Price and ExpiresAt are optional: nil leaves the current value. SizeDelta
// is relative (0 leaves size alone) and TimeInForceUnspecified leaves time in
// force alone. PeggedOffset and PeggedReference are always sent, unlike
// Price and ExpiresAt; the wire schema carries that asymmetry and it is kept
// as-is. PeggedReference travels as the integer value of a PeggedReference,
// not as its tag.
type OrderAmendment struct {
	OrderID         string      `json:"orderId"`
	MarketID        string      `json:"marketId"`
	Price           *string     `json:"price"`
	SizeDelta       int64       `json:"sizeDelta"`
	ExpiresAt       *int64      `json:"expiresAt"`
	TimeInForce     TimeInForce `json:"timeInForce"`
	PeggedOffset    string      `json:"peggedOffset"`
	PeggedReference int32       `json:"peggedReference"`
}

// UnmarshalJSON requires every field except price and expiresAt, which may
// be null or absent.
func (a *OrderAmendment) UnmarshalJSON(data []byte) error {
	required := []string{"orderId", "marketId", "sizeDelta", "timeInForce", "peggedOffset", "peggedReference"}
	if _, err := checkFields("order amendment", data, required, "price", "expiresAt"); err != nil {
		return err
	}
	type wire OrderAmendment
	return json.Unmarshal(data, (*wire)(a))
}

// WithPrice returns a copy of a with Price set.
func (a OrderAmendment) WithPrice(price string) OrderAmendment {
	a.Price = &price
	return a
}

// WithExpiry returns a copy of a with ExpiresAt set.
func (a OrderAmendment) WithExpiry(nanos int64) OrderAmendment {
	a.ExpiresAt = &nanos
	return a
}

// WithPeggedReference sets PeggedReference from the enum.
func (a OrderAmendment) WithPeggedReference(ref PeggedReference, offset string) OrderAmendment {
	a.PeggedReference = int32(ref)
	a.PeggedOffset = offset
	return a
}

// BatchMarketInstructions groups order instructions. The network applies all
// cancellations, then all amendments, then all submissions, each list in
// order. The total item count is capped by the network, not by this client.
type BatchMarketInstructions struct {
	Cancellations []OrderCancellation `json:"cancellations"`
	Amendments    []OrderAmendment    `json:"amendments"`
	Submissions   []OrderSubmission   `json:"submissions"`
}

// Len is the number of instructions across all three lists.
func (b BatchMarketInstructions) Len() int {
	return len(b.Cancellations) + len(b.Amendments) + len(b.Submissions)
}

func (b *BatchMarketInstructions) UnmarshalJSON(data []byte) error {
	if _, err := checkFields("batch", data, []string{"cancellations", "amendments", "submissions"}); err != nil {
		return err
	}
	type wire BatchMarketInstructions
	return json.Unmarshal(data, (*wire)(b))
}

// MarshalJSON always writes the three lists as arrays.
func (b BatchMarketInstructions) MarshalJSON() ([]byte, error) {
	type wire BatchMarketInstructions
	w := wire(b)
	if w.Cancellations == nil {
		w.Cancellations = []OrderCancellation{}
	}
	if w.Amendments == nil {
		w.Amendments = []OrderAmendment{}
	}
	if w.Submissions == nil {
		w.Submissions = []OrderSubmission{}
	}
	return json.Marshal(w)
}
