// Package inventory loads the host's list of fridge items and maps it onto
// scene objects.
package inventory

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/fridgeview/internal/fridge"
	"github.com/Faultbox/fridgeview/pkg/encoding"
)

// DefaultMaxObjects caps how many items are placed in the scene.
const DefaultMaxObjects = 24

// Inventory errors.
var (
	ErrDuplicateID = errors.New("duplicate item id")
	ErrMissingID   = errors.New("item without id")
)

// Item is one inventory entry.
type Item struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Category   string `yaml:"category,omitempty"`
	NodeName   string `yaml:"node_name,omitempty"`
	Quantity   string `yaml:"quantity,omitempty"`
	ExpiryDate string `yaml:"expiry_date,omitempty"`
}

// File is the on-disk inventory document.
type File struct {
	Items []Item `yaml:"items"`
}

// Object converts the item to a scene object.
func (it Item) Object() fridge.SceneObject {
	return fridge.SceneObject{
		ID:             it.ID,
		DisplayName:    it.Name,
		AnchorNodeName: it.NodeName,
		Category:       it.Category,
		Quantity:       it.Quantity,
		ExpiryDate:     it.ExpiryDate,
	}
}

// Default returns the sample items shown when no inventory is available.
func Default() []fridge.SceneObject {
	return []fridge.SceneObject{
		{ID: "apple", DisplayName: "苹果", AnchorNodeName: "Food_apple"},
		{ID: "milk", DisplayName: "牛奶", AnchorNodeName: "Food_milk"},
		{ID: "egg", DisplayName: "鸡蛋", AnchorNodeName: "Food_egg"},
	}
}

// Load reads an inventory file and returns at most maxObjects scene objects
// in file order. A non-positive maxObjects means DefaultMaxObjects.
func Load(path string, maxObjects int) ([]fridge.SceneObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	return Parse(data, maxObjects)
}

// Parse decodes an inventory document. Files exported as UTF-16 with a BOM
// or as GB18030 are converted to UTF-8 first. See Load.
func Parse(data []byte, maxObjects int) ([]fridge.SceneObject, error) {
	data, _, err := encoding.ToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}
	if maxObjects <= 0 {
		maxObjects = DefaultMaxObjects
	}

	seen := make(map[string]bool, len(f.Items))
	objs := make([]fridge.SceneObject, 0, min(len(f.Items), maxObjects))
	for i, it := range f.Items {
		if it.ID == "" {
			return nil, fmt.Errorf("item %d: %w", i, ErrMissingID)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("item %d %q: %w", i, it.ID, ErrDuplicateID)
		}
		seen[it.ID] = true
		if len(objs) < maxObjects {
			objs = append(objs, it.Object())
		}
	}
	return objs, nil
}

// Save writes objects as an inventory file.
func Save(path string, objs []fridge.SceneObject) error {
	f := File{Items: make([]Item, 0, len(objs))}
	for _, o := range objs {
		f.Items = append(f.Items, Item{
			ID:         o.ID,
			Name:       o.DisplayName,
			Category:   o.Category,
			NodeName:   o.AnchorNodeName,
			Quantity:   o.Quantity,
			ExpiryDate: o.ExpiryDate,
		})
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write inventory: %w", err)
	}
	return nil
}

// Reconcile keeps the previously visible IDs that still exist. When none
// survive, every object becomes visible.
func Reconcile(prevVisible []string, objs []fridge.SceneObject) []string {
	present := make(map[string]bool, len(objs))
	for _, o := range objs {
		present[o.ID] = true
	}
	kept := make([]string, 0, len(prevVisible))
	for _, id := range prevVisible {
		if present[id] {
			kept = append(kept, id)
		}
	}
	if len(kept) > 0 {
		return kept
	}
	return IDs(objs)
}
