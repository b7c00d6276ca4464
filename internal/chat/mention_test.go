package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salachat/salachat/internal/chat"
)

func TestSuggestMatchesPrefixAfterLastAt(t *testing.T) {
	known := []string{"Alice", "Bob", "Albert"}

	got := chat.Suggest("hi @al", known)

	assert.Equal(t, []string{"Alice", "Albert"}, got)
}

func TestSuggestWithoutAtSignReturnsNothing(t *testing.T) {
	known := []string{"Alice", "Bob"}

	assert.Empty(t, chat.Suggest("no at sign", known))
}

func TestSuggestBareTrailingAtReturnsEveryone(t *testing.T) {
	known := []string{"Alice", "Bob", "Albert"}

	got := chat.Suggest("hello @", known)

	assert.Equal(t, known, got)
}

func TestSuggestOnlyLastAtDrivesSuggestions(t *testing.T) {
	known := []string{"Alice", "Bob", "Albert"}

	// The earlier @bo token is a finished mention; only @Al is being typed.
	got := chat.Suggest("hi @bo thanks @Al", known)

	assert.Equal(t, []string{"Alice", "Albert"}, got)
}

func TestSuggestIsCaseInsensitive(t *testing.T) {
	known := []string{"Alice", "Bob"}

	assert.Equal(t, []string{"Bob"}, chat.Suggest("ping @BO", known))
}

func TestSuggestNoMatches(t *testing.T) {
	known := []string{"Alice", "Bob"}

	assert.Empty(t, chat.Suggest("hey @zz", known))
}

func TestResolveAndHighlightWrapsEveryOccurrence(t *testing.T) {
	rendered, matched := chat.ResolveAndHighlight("hello @Bob and @Bob", []string{"Bob"})

	assert.Equal(t, "hello <b>@Bob</b> and <b>@Bob</b>", rendered)
	assert.Equal(t, []string{"Bob"}, matched)
}

func TestResolveAndHighlightLeavesUnknownNamesAlone(t *testing.T) {
	rendered, matched := chat.ResolveAndHighlight("@Unknown hi", []string{"Bob"})

	assert.Equal(t, "@Unknown hi", rendered)
	assert.Empty(t, matched)
}

func TestResolveAndHighlightIsCaseSensitive(t *testing.T) {
	rendered, matched := chat.ResolveAndHighlight("hi @bob", []string{"Bob"})

	assert.Equal(t, "hi @bob", rendered)
	assert.Empty(t, matched)
}

func TestResolveAndHighlightMultipleNames(t *testing.T) {
	rendered, matched := chat.ResolveAndHighlight("@Alice meet @Bob", []string{"Alice", "Bob"})

	assert.Equal(t, "<b>@Alice</b> meet <b>@Bob</b>", rendered)
	assert.Equal(t, []string{"Alice", "Bob"}, matched)
}

func TestResolveAndHighlightDoubledAtSign(t *testing.T) {
	// The pattern anchors each match independently, so the name still
	// matches starting at the second @.
	rendered, matched := chat.ResolveAndHighlight("@@Bob", []string{"Bob"})

	assert.Equal(t, "@<b>@Bob</b>", rendered)
	assert.Equal(t, []string{"Bob"}, matched)
}

func TestResolveAndHighlightTrailingAt(t *testing.T) {
	rendered, matched := chat.ResolveAndHighlight("hi @", []string{"Bob"})

	assert.Equal(t, "hi @", rendered)
	assert.Empty(t, matched)
}

func TestResolveAndHighlightMixedKnownAndUnknown(t *testing.T) {
	rendered, matched := chat.ResolveAndHighlight("@Bob ping @Ghost", []string{"Bob"})

	assert.Equal(t, "<b>@Bob</b> ping @Ghost", rendered)
	assert.Equal(t, []string{"Bob"}, matched)
}
