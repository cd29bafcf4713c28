package domain

// CommandPrefix is the canonical command word every recognized prefix is
// rewritten to before dispatch
const CommandPrefix = "!retro"

// BotIdentity is the bot's own identity, resolved once at startup and
// read-only afterwards
type BotIdentity struct {
	UserID      string
	Localpart   string
	DisplayName string
}

// CommandPrefixes returns the accepted command prefixes in priority
// order: the literal command word, then localpart, display name and full
// user id, each followed by a colon
func (b BotIdentity) CommandPrefixes() []string {
	prefixes := []string{CommandPrefix}
	if b.Localpart != "" {
		prefixes = append(prefixes, b.Localpart+":")
	}
	if b.DisplayName != "" {
		prefixes = append(prefixes, b.DisplayName+":")
	}
	if b.UserID != "" {
		prefixes = append(prefixes, b.UserID+":")
	}
	return prefixes
}
