package viewer

import (
	"github.com/Faultbox/fridgeview/internal/fridge"
)

// Detail surface text.
const (
	DetailTitle  = "Item details"
	EmptyMessage = "No item selected"
)

// Field is one labeled line on the detail surface.
type Field struct {
	Label string
	Value string
}

// DetailSheet is the content of the detail surface for the selected object.
type DetailSheet struct {
	Object fridge.SceneObject
}

// NewDetailSheet returns the sheet for obj, or nil when nothing is selected.
func NewDetailSheet(obj *fridge.SceneObject) *DetailSheet {
	if obj == nil {
		return nil
	}
	return &DetailSheet{Object: *obj}
}

// Title returns the headline: the display name, or the ID when unnamed.
func (d *DetailSheet) Title() string {
	if d == nil {
		return EmptyMessage
	}
	if d.Object.DisplayName != "" {
		return d.Object.DisplayName
	}
	return d.Object.ID
}

// Fields returns the label lines. Empty optional values are omitted; a nil
// sheet has none.
func (d *DetailSheet) Fields() []Field {
	if d == nil {
		return nil
	}
	fields := []Field{{Label: "ID", Value: d.Object.ID}}
	for _, f := range []Field{
		{Label: "Anchor", Value: d.Object.AnchorNodeName},
		{Label: "Category", Value: d.Object.Category},
		{Label: "Quantity", Value: d.Object.Quantity},
		{Label: "Expires", Value: d.Object.ExpiryDate},
	} {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
