package world

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NewDayDecay is how much each survival gauge drops at daybreak.
const NewDayDecay = 25

// Player is the authoritative per-player record. Robots live on Energy and
// ignore the organic gauges; organics never touch Energy.
type Player struct {
	Name         string
	PasswordHash string

	IsGM    bool
	IsRobot bool
	IsSick  bool

	Hunger      int
	Thirst      int
	Sleep       int
	Oxygen      int
	Energy      int
	Biofeedback int
	Temperature int

	Inventory []Item
	Equipment []Item
}

// NewPlayer creates a player with full gauges and an empty grid.
func NewPlayer(name, passwordHash string) *Player {
	return &Player{
		Name:         name,
		PasswordHash: passwordHash,
		Hunger:       100,
		Thirst:       100,
		Sleep:        100,
		Oxygen:       100,
		Energy:       100,
		Biofeedback:  100,
		Temperature:  37,
	}
}

// Clamp100 keeps a gauge inside [0, 100]. Temperature is the one gauge that
// is never clamped.
func Clamp100(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ApplyNewDay applies the daybreak decay. Sick players skip the biofeedback
// reset; robots only burn energy.
func (p *Player) ApplyNewDay() {
	if p.IsRobot {
		p.Energy = Clamp100(p.Energy - NewDayDecay)
		return
	}
	p.Hunger = Clamp100(p.Hunger - NewDayDecay)
	p.Thirst = Clamp100(p.Thirst - NewDayDecay)
	p.Sleep = Clamp100(p.Sleep - NewDayDecay)
	if !p.IsSick {
		p.Biofeedback = 100
	}
}

// NormalizeName folds a player name to its canonical lookup form. Accented
// names (Niccolò, Chloé) must hash to one row regardless of how the client
// composed them.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// View is the sanitized wire projection of a player. No password hash.
type View struct {
	Name        string `json:"name"`
	IsGM        bool   `json:"isGm"`
	IsRobot     bool   `json:"isRobot"`
	IsSick      bool   `json:"isSick"`
	Hunger      int    `json:"hunger"`
	Thirst      int    `json:"thirst"`
	Sleep       int    `json:"sleep"`
	Oxygen      int    `json:"oxygen"`
	Energy      int    `json:"energy"`
	Biofeedback int    `json:"biofeedback"`
	Temperature int    `json:"temperature"`
	Inventory   []Item `json:"inventory"`
	Equipment   []Item `json:"equipment"`
}

// View returns the sanitized projection sent to clients and the GM console.
func (p *Player) View() View {
	inv := p.Inventory
	if inv == nil {
		inv = []Item{}
	}
	eq := p.Equipment
	if eq == nil {
		eq = []Item{}
	}
	return View{
		Name:        p.Name,
		IsGM:        p.IsGM,
		IsRobot:     p.IsRobot,
		IsSick:      p.IsSick,
		Hunger:      p.Hunger,
		Thirst:      p.Thirst,
		Sleep:       p.Sleep,
		Oxygen:      p.Oxygen,
		Energy:      p.Energy,
		Biofeedback: p.Biofeedback,
		Temperature: p.Temperature,
		Inventory:   inv,
		Equipment:   eq,
	}
}

// Storage is a shared world container (chest) every player can open.
type Storage struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	Cols      int    `json:"cols"`
	Rows      int    `json:"rows"`
	Inventory []Item `json:"inventory"`
}
