package inventory

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Faultbox/fridgeview/internal/config"
	"github.com/Faultbox/fridgeview/internal/fridge"
)

// Category chips.
const (
	CategoryAll   = "全部"
	CategoryOther = "其他"
)

// Sort orders.
const (
	SortName   = "name"
	SortExpiry = "expiry"
)

// expiryLayouts are the date formats accepted in expiry_date.
var expiryLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// Filter selects and orders the objects shown in the fridge.
type Filter struct {
	Query        string // matched against name and category, case-insensitive
	Category     string // empty or CategoryAll matches every category
	SelectedOnly bool   // keep only objects already visible
	SortByExpiry bool   // soonest expiry first; otherwise by name
}

// FilterFromConfig builds the filter configured for startup.
func FilterFromConfig(cfg config.FilterConfig) Filter {
	return Filter{
		Query:        cfg.Query,
		Category:     cfg.Category,
		SelectedOnly: cfg.SelectedOnly,
		SortByExpiry: cfg.Sort == SortExpiry,
	}
}

// CategoryOf returns the chip an object is listed under.
func CategoryOf(o fridge.SceneObject) string {
	if c := strings.TrimSpace(o.Category); c != "" {
		return c
	}
	return CategoryOther
}

// Apply returns the IDs of the objects matching f, in display order.
// visible is the current visible set, consulted when SelectedOnly is set.
func (f Filter) Apply(objs []fridge.SceneObject, visible []string) []string {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	category := strings.TrimSpace(f.Category)
	shown := make(map[string]bool, len(visible))
	for _, id := range visible {
		shown[id] = true
	}

	matched := make([]fridge.SceneObject, 0, len(objs))
	for _, o := range objs {
		cat := CategoryOf(o)
		if category != "" && category != CategoryAll && cat != category {
			continue
		}
		if f.SelectedOnly && !shown[o.ID] {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(o.DisplayName+" "+cat), query) {
			continue
		}
		matched = append(matched, o)
	}

	if f.SortByExpiry {
		slices.SortStableFunc(matched, func(a, b fridge.SceneObject) int {
			return compareExpiry(a.ExpiryDate, b.ExpiryDate)
		})
	} else {
		col := collate.New(language.SimplifiedChinese)
		slices.SortStableFunc(matched, func(a, b fridge.SceneObject) int {
			return col.CompareString(a.DisplayName, b.DisplayName)
		})
	}

	return IDs(matched)
}

// Categories returns CategoryAll followed by every distinct category in
// collation order.
func Categories(objs []fridge.SceneObject) []string {
	var cats []string
	seen := make(map[string]bool)
	for _, o := range objs {
		c := CategoryOf(o)
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	col := collate.New(language.SimplifiedChinese)
	col.SortStrings(cats)
	return append([]string{CategoryAll}, cats...)
}

// NextCategory returns the chip after current, wrapping to the first.
// An unknown current selects the first chip.
func NextCategory(categories []string, current string) string {
	if len(categories) == 0 {
		return CategoryAll
	}
	i := slices.Index(categories, current)
	return categories[(i+1)%len(categories)]
}

// IDs returns the object IDs in order.
func IDs(objs []fridge.SceneObject) []string {
	ids := make([]string, 0, len(objs))
	for _, o := range objs {
		ids = append(ids, o.ID)
	}
	return ids
}

// compareExpiry orders dates ascending; unparseable dates sort last.
func compareExpiry(a, b string) int {
	ta, okA := parseExpiry(a)
	tb, okB := parseExpiry(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return ta.Compare(tb)
}

func parseExpiry(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
