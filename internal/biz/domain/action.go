package domain

import "strings"

// MessageKind is the Matrix message type a formatted action is sent as
type MessageKind string

const (
	// KindNormal is a regular room message
	KindNormal MessageKind = "m.text"
	// KindNotice is a bot notice; other bots ignore notices, which
	// prevents command loops
	KindNotice MessageKind = "m.notice"
)

// Pill is a mention reference rendered both as plain text and as HTML
type Pill struct {
	Text string
	HTML string
}

// UnassignedPill is substituted when no leading initials resolve, so the
// mention segment of an action message is never empty
func UnassignedPill() Pill {
	return Pill{Text: "⚠ UNASSIGNED ⚠", HTML: "⚠ UNASSIGNED ⚠"}
}

// FormattedMessage is a fully rendered action ready to send
type FormattedMessage struct {
	Body          string
	FormattedBody string
	Kind          MessageKind
}

// checkmarks mark an action as already done
var checkmarks = []string{"✅", "✔"}

// KindForText returns the kind for an action's trailing text: actions
// carrying a checkmark go out as notices
func KindForText(text string) MessageKind {
	for _, mark := range checkmarks {
		if strings.Contains(text, mark) {
			return KindNotice
		}
	}
	return KindNormal
}
