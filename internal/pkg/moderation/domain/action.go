package domain

// Action is the pipeline's verdict for one message.
type Action int

const (
	ActionNone Action = iota
	ActionDelete
	ActionDeleteWarn
	ActionDeleteMute
	ActionDeleteLog
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionDelete:
		return "delete"
	case ActionDeleteWarn:
		return "delete+warn"
	case ActionDeleteMute:
		return "delete+mute"
	case ActionDeleteLog:
		return "delete+log"
	default:
		return "unknown"
	}
}

// Verdict classifications returned by the spam limiter.
type SpamVerdict int

const (
	VerdictOK SpamVerdict = iota
	VerdictSpam
)
