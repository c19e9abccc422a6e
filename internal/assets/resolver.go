package assets

import "strings"

// Query is the free text a scene object offers for resolution.
type Query struct {
	Name     string
	Category string
}

// Rule maps a keyword set to a key. A rule matches when any keyword is a
// substring of the lowercased query text.
type Rule struct {
	Key      Key
	Keywords []string
}

// rules is evaluated in order and the first match wins. Reordering it changes
// results for text that matches more than one rule.
var rules = []Rule{
	{Key: KeyApple, Keywords: []string{"apple", "苹果", "红富士", "青苹果"}},
	{Key: KeyFish, Keywords: []string{"fish", "鱼", "三文鱼", "鳕鱼", "金枪鱼", "鲈鱼", "虾", "蟹", "海鲜"}},
	{Key: KeyMilk, Keywords: []string{"milk", "牛奶", "酸奶", "乳"}},
	{Key: KeyEgg, Keywords: []string{"egg", "鸡蛋", "鸭蛋", "鹌鹑蛋", "蛋"}},
}

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Key: r.Key, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Resolve maps a query to an asset key. It is pure and total: text that
// matches no rule yields KeyUnresolved.
func Resolve(q Query) Key {
	text := strings.ToLower(q.Category + " " + q.Name)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return r.Key
			}
		}
	}
	return KeyUnresolved
}
