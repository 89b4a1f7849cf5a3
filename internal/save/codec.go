package save

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/xtding233/tavern-gambit/internal/model"
)

// Issue records one field that was reset to its default while decoding.
type Issue struct {
	Key    string
	Field  string
	Reason string
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %s", i.Key, i.Reason)
	}
	return fmt.Sprintf("%s.%s: %s", i.Key, i.Field, i.Reason)
}

// Limits bounds decoded upgrade levels.
type Limits struct {
	MaxLuckLevel  int
	MaxCardsLevel int
}

// EncodeInventory renders every known currency, zeros included.
func EncodeInventory(inv model.Inventory) ([]byte, error) {
	out := make(map[string]int, len(model.ResourceTypes))
	for _, t := range model.ResourceTypes {
		out[string(t)] = inv[t]
	}
	return json.Marshal(out)
}

// EncodeUpgrades renders both levels.
func EncodeUpgrades(up model.UpgradesState) ([]byte, error) {
	return json.Marshal(up)
}

// DecodeInventory never fails: unreadable blobs and fields fall back to
// zero balances, field by field.
func DecodeInventory(blob []byte) (model.Inventory, []Issue) {
	inv := model.NewInventory()
	fields, issues := decodeFields(InventoryKey, blob)
	for _, t := range model.ResourceTypes {
		n, issue, ok := decodeCount(InventoryKey, string(t), fields)
		if issue != nil {
			issues = append(issues, *issue)
		}
		if ok {
			inv[t] = n
		}
	}
	return inv, issues
}

// DecodeUpgrades never fails: unreadable fields fall back to level 0 and
// levels beyond a track's cap are clamped to it.
func DecodeUpgrades(blob []byte, lim Limits) (model.UpgradesState, []Issue) {
	var up model.UpgradesState
	fields, issues := decodeFields(UpgradesKey, blob)

	levels := []struct {
		field string
		max   int
		dst   *int
	}{
		{"luckLevel", lim.MaxLuckLevel, &up.LuckLevel},
		{"maxCardsLevel", lim.MaxCardsLevel, &up.MaxCardsLevel},
	}
	for _, l := range levels {
		n, issue, ok := decodeCount(UpgradesKey, l.field, fields)
		if issue != nil {
			issues = append(issues, *issue)
		}
		if !ok {
			continue
		}
		if n > l.max {
			issues = append(issues, Issue{Key: UpgradesKey, Field: l.field, Reason: fmt.Sprintf("level %d above cap %d, clamped", n, l.max)})
			n = l.max
		}
		*l.dst = n
	}
	return up, issues
}

func decodeFields(key string, blob []byte) (map[string]interface{}, []Issue) {
	if len(blob) == 0 {
		return nil, nil
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(blob, &fields); err != nil {
		return nil, []Issue{{Key: key, Reason: "malformed blob, using defaults: " + err.Error()}}
	}
	return fields, nil
}

// decodeCount reads a non-negative integer field. Numbers, numeric strings
// and booleans are accepted; anything else resets the field.
func decodeCount(key, field string, fields map[string]interface{}) (int, *Issue, bool) {
	raw, ok := fields[field]
	if !ok || raw == nil {
		return 0, nil, false
	}
	var n int
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &n,
	})
	if err != nil {
		return 0, &Issue{Key: key, Field: field, Reason: err.Error()}, false
	}
	if err := dec.Decode(raw); err != nil {
		return 0, &Issue{Key: key, Field: field, Reason: fmt.Sprintf("unreadable value %v, reset to 0", raw)}, false
	}
	if n < 0 {
		return 0, &Issue{Key: key, Field: field, Reason: fmt.Sprintf("negative value %d, reset to 0", n)}, false
	}
	return n, nil, true
}
