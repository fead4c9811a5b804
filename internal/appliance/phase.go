package appliance

type Phase int

const (
	PhaseBooting Phase = iota
	PhaseStationUp
	PhaseSessionOpen
	PhaseSubscribed
	PhaseRunning
	PhaseShuttingDown
	PhaseResetting
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseBooting:
		return "booting"
	case PhaseStationUp:
		return "station-up"
	case PhaseSessionOpen:
		return "session-open"
	case PhaseSubscribed:
		return "subscribed"
	case PhaseRunning:
		return "running"
	case PhaseShuttingDown:
		return "shutting-down"
	case PhaseResetting:
		return "resetting"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
