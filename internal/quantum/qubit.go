package quantum

import "fmt"

// State is the value held by a qubit. Measured qubits are always Zero or One.
type State int

const (
	Zero State = iota
	One
	Uncertain
)

func (s State) String() string {
	switch s {
	case Zero:
		return "0"
	case One:
		return "1"
	case Uncertain:
		return "superposition"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "0":
		*s = Zero
	case "1":
		*s = One
	case "superposition":
		*s = Uncertain
	default:
		return fmt.Errorf("unknown qubit state %q", b)
	}
	return nil
}

// Definite reports whether s is Zero or One.
func (s State) Definite() bool {
	return s == Zero || s == One
}

// Qubit is one clickable item of a level session.
type Qubit struct {
	ID       int   `json:"id"`
	State    State `json:"state"`
	Measured bool  `json:"measured"`
}

// Glyph is what a renderer shows for the qubit. Unmeasured superpositions
// are drawn as |ψ⟩, everything else as its definite value.
func (q Qubit) Glyph() string {
	if q.State == Uncertain && !q.Measured {
		return "|ψ⟩"
	}
	return q.State.String()
}

// Source is the randomness the game draws from. *math/rand/v2.Rand
// satisfies it; tests pass a scripted sequence.
type Source interface {
	IntN(n int) int
}

func coin(src Source) bool {
	return src.IntN(2) == 1
}

func randomState(src Source) State {
	if coin(src) {
		return Uncertain
	}
	return collapse(src)
}

func collapse(src Source) State {
	if coin(src) {
		return One
	}
	return Zero
}
