package quantum

// Outcome describes what a call to Measure did.
type Outcome int

const (
	// Ignored means nothing changed: the game is over, the id is unknown
	// or the qubit was already measured.
	Ignored Outcome = iota
	Measured
	LevelUp
	GameOver
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Measured:
		return "measured"
	case LevelUp:
		return "level_up"
	case GameOver:
		return "game_over"
	}
	return "unknown"
}

// Game owns one level session plus the running score, level and game-over
// flag. It is not safe for concurrent use.
type Game struct {
	src    Source
	qubits []Qubit
	score  int
	level  int
	over   bool
}

// New mounts a game at level 1.
func New(src Source) *Game {
	g := &Game{src: src}
	g.Restart()
	return g
}

// InitializeLevel replaces the session with level+2 fresh qubits and clears
// the game-over flag. Levels below 1 are treated as 1.
func (g *Game) InitializeLevel(level int) {
	if level < 1 {
		level = 1
	}
	qubits := make([]Qubit, level+2)
	for i := range qubits {
		qubits[i] = Qubit{ID: i, State: randomState(g.src)}
	}
	g.level = level
	g.qubits = qubits
	g.over = false
}

// Measure resolves the qubit with the given id. When it was the last
// unmeasured qubit the round is scored: a positive reward advances the level,
// a zero reward ends the game.
func (g *Game) Measure(id int) Outcome {
	if g.over {
		return Ignored
	}
	idx := g.indexOf(id)
	if idx < 0 || g.qubits[idx].Measured {
		return Ignored
	}

	complete := true
	for i, q := range g.qubits {
		if i != idx && !q.Measured {
			complete = false
			break
		}
	}

	q := &g.qubits[idx]
	if q.State == Uncertain {
		q.State = collapse(g.src)
	}
	q.Measured = true

	if !complete {
		return Measured
	}

	reward := Reward(g.qubits)
	g.score += reward
	if reward > 0 {
		g.InitializeLevel(g.level + 1)
		return LevelUp
	}
	g.over = true
	return GameOver
}

// Restart resets score and level and deals a new level 1 session.
func (g *Game) Restart() {
	g.score = 0
	g.InitializeLevel(1)
}

// Reward counts the qubits that score at the end of a round: those still in
// superposition plus those measured to a definite value.
func Reward(qubits []Qubit) int {
	n := 0
	for _, q := range qubits {
		if q.State == Uncertain || (q.Measured && q.State.Definite()) {
			n++
		}
	}
	return n
}

func (g *Game) indexOf(id int) int {
	for i, q := range g.qubits {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func (g *Game) Score() int { return g.score }
func (g *Game) Level() int { return g.level }
func (g *Game) Over() bool { return g.over }

// Qubits returns a copy of the current session.
func (g *Game) Qubits() []Qubit {
	out := make([]Qubit, len(g.qubits))
	copy(out, g.qubits)
	return out
}

// Snapshot is a read-only view of a game for renderers.
type Snapshot struct {
	Qubits   []Qubit `json:"qubits"`
	Score    int     `json:"score"`
	Level    int     `json:"level"`
	GameOver bool    `json:"game_over"`
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Qubits:   g.Qubits(),
		Score:    g.score,
		Level:    g.level,
		GameOver: g.over,
	}
}
