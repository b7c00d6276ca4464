package chat

import (
	"regexp"
	"strings"
)

// mentionPattern matches an @ followed by one or more ASCII letters, digits,
// or underscores. Each match anchors independently, so "@@name" still
// captures "name" starting at the second @.
var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// Suggest returns the display names that complete the mention the user is
// currently typing. The candidate prefix is everything after the last "@"
// in partial; earlier "@" tokens are ignored since live typing only ever
// completes the most recent one. With no "@" at all there is nothing to
// complete and the result is nil. A bare trailing "@" matches everyone.
// Matching is a case-insensitive prefix test; result order follows known.
func Suggest(partial string, known []string) []string {
	at := strings.LastIndex(partial, "@")
	if at < 0 {
		return nil
	}
	prefix := strings.ToLower(partial[at+1:])

	var matches []string
	for _, name := range known {
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			matches = append(matches, name)
		}
	}
	return matches
}

// ResolveAndHighlight scans text for @name mentions, keeps the ones whose
// name exactly matches a known display name (case-sensitive), and wraps
// every literal occurrence of each matched "@name" in <b> tags. The
// returned names are the distinct matched names in first-seen order; they
// are not consumed by broadcast today but callers may route notifications
// from them.
func ResolveAndHighlight(text string, known []string) (string, []string) {
	knownSet := make(map[string]struct{}, len(known))
	for _, name := range known {
		knownSet[name] = struct{}{}
	}

	var matched []string
	seen := make(map[string]struct{})
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if _, ok := knownSet[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		matched = append(matched, name)
	}

	// One ReplaceAll per distinct name covers every occurrence in a single
	// pass and cannot double-wrap a name mentioned more than once.
	for _, name := range matched {
		text = strings.ReplaceAll(text, "@"+name, "<b>@"+name+"</b>")
	}
	return text, matched
}
