package engine

// InputSource yields input bytes without ever blocking
type InputSource interface {
	TryReadByte() (byte, bool)
}

// ScriptedInput replays a fixed poll sequence; a nil entry means no input on that poll
// After the script is exhausted every poll reports no input
type ScriptedInput struct {
	polls []*byte
	pos   int
}

// NewScriptedInput returns input that stays silent for idle polls, then delivers keys one per poll
func NewScriptedInput(idle int, keys ...byte) *ScriptedInput {
	s := &ScriptedInput{polls: make([]*byte, 0, idle+len(keys))}
	for i := 0; i < idle; i++ {
		s.polls = append(s.polls, nil)
	}
	for i := range keys {
		s.polls = append(s.polls, &keys[i])
	}
	return s
}

func (s *ScriptedInput) TryReadByte() (byte, bool) {
	if s.pos >= len(s.polls) {
		return 0, false
	}
	p := s.polls[s.pos]
	s.pos++
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Polls returns how many times the input was read
func (s *ScriptedInput) Polls() int {
	return s.pos
}
