package models

type CommandType string

const (
	CommandOn           CommandType = "on"
	CommandOff          CommandType = "off"
	CommandToggle       CommandType = "toggle"
	CommandUnrecognized CommandType = "unrecognized"
)

// Command is a decoded feed payload. Payload keeps the raw bytes for logging.
type Command struct {
	Type    CommandType
	Payload []byte
}

func (c Command) Recognized() bool {
	return c.Type != CommandUnrecognized
}
