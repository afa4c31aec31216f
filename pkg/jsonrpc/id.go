package jsonrpc

import (
	"math/rand/v2"
	"strconv"
)

// NewID returns a correlation id: a uniform 64-bit value rendered in decimal.
// Two ids collide with probability about n²/2^65 for n ids; nothing here
// detects a collision.
func NewID() string {
	return strconv.FormatUint(rand.Uint64(), 10)
}
