package historystore

import (
	"time"

	"github.com/mqttui/mqttui/internal/payload"
)

// QoS mirrors the three MQTT delivery guarantee levels.
type QoS int

const (
	AtMostOnce QoS = iota
	AtLeastOnce
	ExactlyOnce
)

func (q QoS) String() string {
	switch q {
	case AtMostOnce:
		return "AtMostOnce"
	case AtLeastOnce:
		return "AtLeastOnce"
	case ExactlyOnce:
		return "ExactlyOnce"
	default:
		return "Unknown"
	}
}

// Entry is one received message recorded against a topic node. Topic is
// deliberately absent: it is implicit in the containing node.
type Entry struct {
	// Seq is a per-node, 1-based, strictly increasing sequence number
	// assigned at insertion time, independent of the entry's position in
	// the (possibly capped) history ring. The view model anchors history
	// selection to Seq rather than to a ring position, since a ring
	// position drifts as new entries arrive and old ones are evicted,
	// whereas Seq identifies one specific message for the node's
	// lifetime (spec §3 "selected-history-index").
	Seq uint64

	// Received is the receipt instant. Obtained via time.Now() so it
	// carries a monotonic reading for ordering comparisons.
	Received time.Time

	QoS      QoS
	Retained bool

	// Payload is the memoized classification of the message body.
	Payload payload.Payload

	// OriginalSize is the payload size on the wire, which may exceed
	// len(Payload.Raw) when the payload was truncated at ingest.
	OriginalSize int
}
