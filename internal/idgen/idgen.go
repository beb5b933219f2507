// Package idgen generates short random hex identifiers for use as MQTT
// client IDs when the user does not supply one (spec §4.4).
//
// Trimmed from github.com/getmockd/mockd's internal/id.Short, which
// produces a 16-character ID from 8 random bytes; mqttui only needs
// enough entropy to avoid client ID collisions against the same broker
// within a session, so it uses 4 bytes (8 hex characters). The teacher's
// UUID/ULID/Alphanumeric generators have no caller in this domain (no
// entity needs lexicographic sortability or RFC 4122 compliance) and are
// dropped rather than carried unused.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
)

// ClientIDPrefix is prepended to every generated client ID so that
// brokers' connection logs are recognizably attributable to mqttui.
const ClientIDPrefix = "mqttui-"

// Short returns an 8-character random hex string.
func Short() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ClientID returns a random MQTT client ID of the form "mqttui-xxxxxxxx".
func ClientID() string {
	return ClientIDPrefix + Short()
}
