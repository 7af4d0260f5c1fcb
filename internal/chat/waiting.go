package chat

import "parley/internal/types"

// placeholderTexts are assistant contents that mean "no real reply yet".
// The injector's own placeholder text is a member, so locally synthesized
// placeholders always classify as waiting.
var placeholderTexts = map[string]struct{}{
	"":                       {},
	assistantPlaceholderText: {},
	"Working...":             {},
}

// Waiting reports whether the user is blocked on an outstanding response.
// It is a pure function of the store plus the caller's request-in-flight
// flag, and it drives input disabling, submit rejection, and the poll
// scheduler's interval.
func Waiting(store *MessageStore, requestInFlight bool) bool {
	if requestInFlight {
		return true
	}
	for _, msg := range store.Timeline() {
		if msg.Role == types.RoleAssistant && msg.Processing {
			return true
		}
	}
	last, ok := store.LastAssistant()
	if !ok {
		return false
	}
	_, placeholder := placeholderTexts[last.Content.Text]
	return placeholder
}
