package terminal

// Icons for terminal output
const (
	IconSuccess = "✅"
	IconError   = "❌"
	IconWarning = "⚠️"
	IconInfo    = "ℹ️"
	IconCrash   = "💥"
	IconReport  = "📝"
	IconWatch   = "👀"
	IconConfig  = "⚙️"
	IconSearch  = "🔍"
	IconCheck   = "✓"
	IconCross   = "✗"
	IconArrow   = "→"
	IconDot     = "•"
)
