// Package topicpath implements pure functions over MQTT topic strings and
// topic filters: splitting, joining, ancestor iteration and filter matching
// per MQTT version 5 / 3.1.1 section 4.7.
package topicpath

import "strings"

// Separator is the MQTT level separator.
const Separator = "/"

// MultiLevelWildcard matches zero or more trailing topic levels.
const MultiLevelWildcard = "#"

// SingleLevelWildcard matches exactly one topic level.
const SingleLevelWildcard = "+"

// Split breaks a topic or topic filter into its levels. MQTT explicitly
// permits empty levels (e.g. "a//b" has levels ["a", "", "b"]).
func Split(topic string) []string {
	return strings.Split(topic, Separator)
}

// Join reassembles levels produced by Split back into a topic string.
func Join(levels []string) string {
	return strings.Join(levels, Separator)
}

// Ancestors returns every ancestor topic of topic, ordered root to leaf,
// including topic itself as the final element. "a/b/c" yields
// ["a", "a/b", "a/b/c"].
func Ancestors(topic string) []string {
	levels := Split(topic)
	out := make([]string, 0, len(levels))
	for i := range levels {
		out = append(out, Join(levels[:i+1]))
	}
	return out
}

// IsSystemTopic reports whether topic begins with the reserved "$" prefix
// (e.g. "$SYS/broker/uptime"), which per MQTT §4.7.2 is never matched by a
// filter whose first level is "#" or "+".
func IsSystemTopic(topic string) bool {
	return strings.HasPrefix(topic, "$")
}

// ValidFilter reports whether filter is a syntactically valid topic filter:
// "#" may only appear as the final level, and "+"/"#" may only occupy a
// whole level (not e.g. "sensor+").
func ValidFilter(filter string) bool {
	levels := Split(filter)
	for i, level := range levels {
		switch {
		case level == MultiLevelWildcard:
			if i != len(levels)-1 {
				return false
			}
		case strings.Contains(level, MultiLevelWildcard):
			return false
		case level == SingleLevelWildcard:
			// fine anywhere
		case strings.Contains(level, SingleLevelWildcard):
			return false
		}
	}
	return true
}

// Match reports whether topic is matched by filter, following MQTT §4.7
// exactly: "+" matches exactly one non-empty-or-empty level, "#" must be
// the final level and matches zero or more trailing levels, and topics
// beginning with "$" are matched only by filters that spell out the "$"
// segment explicitly (a leading "#" or "+" never matches them).
func Match(filter, topic string) bool {
	filterLevels := Split(filter)
	topicLevels := Split(topic)

	if IsSystemTopic(topic) {
		if len(filterLevels) == 0 {
			return false
		}
		first := filterLevels[0]
		if first == MultiLevelWildcard || first == SingleLevelWildcard {
			return false
		}
	}

	fi := 0
	for fi < len(filterLevels) {
		level := filterLevels[fi]

		if level == MultiLevelWildcard {
			// '#' must be the last filter level (ValidFilter enforces this
			// for well-formed filters, but match defensively regardless).
			return true
		}

		if fi >= len(topicLevels) {
			return false
		}

		if level != SingleLevelWildcard && level != topicLevels[fi] {
			return false
		}

		fi++
	}

	return fi == len(topicLevels)
}
