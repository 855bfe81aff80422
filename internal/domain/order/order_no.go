package order

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// NewOrderNo builds the external-facing order number: a date prefix for
// rough monotonicity plus a random suffix. The unique index on order_no is
// the collision backstop.
func NewOrderNo(now time.Time) string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return fmt.Sprintf("%s-%06d", now.Format("20060102"), now.UnixNano()%1000000)
	}
	suffix := binary.BigEndian.Uint32(buf[:]) % 1000000
	return fmt.Sprintf("%s-%06d", now.Format("20060102"), suffix)
}
