package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp100(t *testing.T) {
	assert.Equal(t, 0, Clamp100(-40))
	assert.Equal(t, 0, Clamp100(0))
	assert.Equal(t, 55, Clamp100(55))
	assert.Equal(t, 100, Clamp100(100))
	assert.Equal(t, 100, Clamp100(240))
}

func TestApplyNewDay(t *testing.T) {
	p := NewPlayer("bob", "")
	p.Hunger = 10
	p.Thirst = 80
	p.Sleep = 25
	p.Biofeedback = 40

	p.ApplyNewDay()

	assert.Equal(t, 0, p.Hunger, "clamped, not negative")
	assert.Equal(t, 55, p.Thirst)
	assert.Equal(t, 0, p.Sleep)
	assert.Equal(t, 100, p.Biofeedback, "healthy players wake up healed")
	assert.Equal(t, 100, p.Energy, "organic gauge set untouched")
}

func TestApplyNewDaySick(t *testing.T) {
	p := NewPlayer("bob", "")
	p.IsSick = true
	p.Biofeedback = 40

	p.ApplyNewDay()

	assert.Equal(t, 40, p.Biofeedback, "sickness blocks the daybreak heal")
	assert.Equal(t, 75, p.Hunger)
}

func TestApplyNewDayRobot(t *testing.T) {
	p := NewPlayer("C1-P8", "")
	p.IsRobot = true
	p.Energy = 20

	p.ApplyNewDay()

	assert.Equal(t, 0, p.Energy, "25 drain clamps at zero")
	assert.Equal(t, 100, p.Hunger, "robots don't get hungry")
	assert.Equal(t, 100, p.Biofeedback)
}

func TestNormalizeName(t *testing.T) {
	// Decomposed o + combining grave must match the precomposed form.
	assert.Equal(t, "Niccolò", NormalizeName("Niccolò"))
	assert.Equal(t, "bob", NormalizeName("  bob "))
}

func TestNewItemIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewItemID("Roccia Grande")
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestViewOmitsPasswordAndNeverNil(t *testing.T) {
	p := NewPlayer("bob", "$2a$10$hash")
	v := p.View()
	assert.NotNil(t, v.Inventory)
	assert.NotNil(t, v.Equipment)
	assert.Equal(t, "bob", v.Name)
}
