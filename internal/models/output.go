package models

// Level is the electrical level of the output pin. The output is active-low.
type Level int

const (
	LevelOn  Level = 0
	LevelOff Level = 1
)

func (l Level) String() string {
	if l == LevelOn {
		return "low"
	}
	return "high"
}

type OutputState int

const (
	StateOff OutputState = iota
	StateOn
)

func (s OutputState) String() string {
	if s == StateOn {
		return "on"
	}
	return "off"
}

func (s OutputState) Invert() OutputState {
	if s == StateOn {
		return StateOff
	}
	return StateOn
}

// Level returns the pin level that represents s.
func (s OutputState) Level() Level {
	if s == StateOn {
		return LevelOn
	}
	return LevelOff
}
