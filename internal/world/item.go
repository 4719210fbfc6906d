package world

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Item kinds with gameplay meaning. Anything else is inert cargo.
const (
	KindFood    = "cibo"
	KindDrink   = "bevanda"
	KindBattery = "batteria"
	KindWeapon  = "arma"
	KindTool    = "attrezzo"
)

// Item is one concrete inventory item instance. Descriptive fields are a
// snapshot of the catalog entry at grant time; later catalog edits do not
// touch items already in the world.
type Item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	Kind   string `json:"kind"`
	Tier   int    `json:"tier"`
	Damage int    `json:"damage"`
	Food   int    `json:"food"`
}

// itemSeq disambiguates IDs minted within the same millisecond (bulk grants).
var itemSeq atomic.Int64

// NewItemID mints a globally unique item instance ID. The base item name is
// kept as a readable prefix; timestamp + sequence + random suffix guarantee
// uniqueness even under rapid bulk grants.
func NewItemID(baseName string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(baseName), " ", "-"))
	return fmt.Sprintf("%s-%d-%d-%s",
		slug, time.Now().UnixMilli(), itemSeq.Add(1), uuid.NewString()[:8])
}

// FindItem returns the index of the item with the given ID, or -1.
func FindItem(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveItem removes the item at index i preserving order.
func RemoveItem(items []Item, i int) []Item {
	return append(items[:i], items[i+1:]...)
}
