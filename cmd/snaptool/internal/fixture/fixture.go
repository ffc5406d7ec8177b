// Package fixture loads the JSON item lists snaptool's build subcommand
// takes as input: a plain array of (type_id, id, data) records,
// the simplest thing that can stand in for a real entity schema.
package fixture

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/FlyyToMoon/libtw2/snap"
)

// Item is one fixture record.
type Item struct {
	TypeID uint16  `json:"type_id"`
	ID     uint16  `json:"id"`
	Data   []int32 `json:"data"`
}

// Load reads a JSON array of Items from path.
func Load(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fixture: open %s", path)
	}
	defer f.Close()

	var items []Item
	if err := json.NewDecoder(f).Decode(&items); err != nil {
		return nil, errors.Wrapf(err, "fixture: decode %s", path)
	}
	return items, nil
}

// BuildSnap constructs a snap.Snap from a loaded fixture, failing on the
// first duplicate-key or oversized item, per snap.Builder.AddItem.
func BuildSnap(items []Item) (*snap.Snap, error) {
	b := snap.NewBuilder()
	for _, it := range items {
		if err := b.AddItem(it.TypeID, it.ID, it.Data); err != nil {
			return nil, errors.Wrapf(err, "fixture: add item (%d,%d)", it.TypeID, it.ID)
		}
	}
	return b.Finish(), nil
}
