// Package cleanretained implements the two clean-retained flows spec.md
// §4.8 describes and §9's Open Questions explicitly says to preserve
// rather than reconcile: an interactive variant that clears every topic
// already present in the long-lived history store's subtree (rule 3 of
// §4.8 — non-retained topics getting an empty retained publish is a
// harmless no-op), and a standalone subcommand variant that opens its
// own short-lived subscription and only targets topics it has actually
// observed as retained.
//
// Grounded on the same paho subscribe/publish call sequence as
// internal/broker (itself grounded on github.com/getmockd/mockd's
// tests/integration/mqtt_test.go), applied here to a collect-then-publish
// workflow instead of a long-running subscription.
package cleanretained

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mqttui/mqttui/internal/broker"
	"github.com/mqttui/mqttui/internal/historystore"
)

// IdleWindow is how long the subcommand variant waits without seeing a
// further retained message before deciding the broker has delivered all
// retained messages for the requested filter (spec §4.8 step 1).
const IdleWindow = 500 * time.Millisecond

// PublishQoS is the QoS the empty clearing publish uses (spec §4.8 step 2).
const PublishQoS byte = 1 // AtLeastOnce

// Result reports what was cleared (or, for a dry run, what would be).
type Result struct {
	Topics []string
}

// Conn is the slice of *broker.Connection this package needs. Declaring
// it here rather than taking *broker.Connection directly lets tests
// exercise both flows against a fake publisher/subscriber without a live
// broker.
type Conn interface {
	Publish(topic string, qos byte, retain bool, body []byte) error
	Subscribe(sub broker.TopicSubscription) error
	Unsubscribe(filter string) error
	SwapStore(store *historystore.Store)
}

// Interactive clears every topic currently present under filter in store,
// regardless of its observed-retained status (spec §4.8 rule 3). It is
// used by the TUI's Delete-key confirm-clean-retained flow, which already
// holds a live subscription and store.
func Interactive(conn Conn, store *historystore.Store, filter string, dryRun bool) (Result, error) {
	snapshots := store.ClearSubtree(filter)
	topics := make([]string, len(snapshots))
	for i, s := range snapshots {
		topics[i] = s.Topic
	}
	if dryRun {
		return Result{Topics: topics}, nil
	}
	if err := publishEmpty(conn, topics); err != nil {
		return Result{}, err
	}
	return Result{Topics: topics}, nil
}

// Subcommand opens its own short-lived subscription to filter, collects
// every topic observed as retained until an idle window elapses with no
// further retained arrival, then publishes an empty retained message to
// each (spec §4.8 steps 1-2). Unlike Interactive, topics never observed
// retained are left untouched.
func Subcommand(ctx context.Context, conn Conn, filter string, dryRun bool) (Result, error) {
	collector := historystore.New(0)

	conn.SwapStore(collector)
	defer conn.SwapStore(nil)

	if err := conn.Subscribe(broker.TopicSubscription{Filter: filter, QoS: PublishQoS}); err != nil {
		return Result{}, fmt.Errorf("subscribing to %q: %w", filter, err)
	}
	defer func() { _ = conn.Unsubscribe(filter) }()

	if err := waitForIdle(ctx, collector, filter); err != nil {
		return Result{}, err
	}

	var topics []string
	for _, snap := range collector.ClearSubtree(filter) {
		for _, e := range collector.SnapshotHistory(snap.Topic).Entries {
			if e.Retained {
				topics = append(topics, snap.Topic)
				break
			}
		}
	}
	sort.Strings(topics)

	if dryRun {
		return Result{Topics: topics}, nil
	}
	if err := publishEmpty(conn, topics); err != nil {
		return Result{}, err
	}
	return Result{Topics: topics}, nil
}

// waitForIdle blocks until IdleWindow has elapsed since the last change
// observed in the number of retained entries store holds under filter,
// or ctx is cancelled. Non-retained arrivals do not restart the window.
func waitForIdle(ctx context.Context, store *historystore.Store, filter string) error {
	retainedCount := func() int {
		n := 0
		for _, snap := range store.ClearSubtree(filter) {
			for _, e := range store.SnapshotHistory(snap.Topic).Entries {
				if e.Retained {
					n++
				}
			}
		}
		return n
	}

	lastCount := retainedCount()
	timer := time.NewTimer(IdleWindow)
	defer timer.Stop()

	const pollInterval = 50 * time.Millisecond
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case <-ticker.C:
			count := retainedCount()
			if count != lastCount {
				lastCount = count
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(IdleWindow)
			}
		}
	}
}

func publishEmpty(conn Conn, topics []string) error {
	for _, topic := range topics {
		if err := conn.Publish(topic, PublishQoS, true, nil); err != nil {
			return fmt.Errorf("clearing retained message on %q: %w", topic, err)
		}
	}
	return nil
}

var _ Conn = (*broker.Connection)(nil)
