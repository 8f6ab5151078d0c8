package token

// Behavior classifies how a node takes part in the flat text.
type Behavior uint8

const (
	// Unspecified means the strategy has no opinion; the engine resolves it to
	// Text for leaves and Absorb for inner nodes.
	Unspecified Behavior = iota
	// Text contributes leaf characters and is recursed into.
	Text
	// Absorb contributes nothing, is not recursed into and is recorded as one
	// elided block in the shift ledger.
	Absorb
	// Stealth is Absorb for low-significance filler next to prose (quotes,
	// fence markers, heading markers).
	Stealth
)

func (b Behavior) String() string {
	switch b {
	case Unspecified:
		return "unspecified"
	case Text:
		return "text"
	case Absorb:
		return "absorb"
	case Stealth:
		return "stealth"
	}
	return "unknown"
}

// Elides reports whether the behavior removes content from the flat text.
func (b Behavior) Elides() bool {
	return b == Absorb || b == Stealth
}
