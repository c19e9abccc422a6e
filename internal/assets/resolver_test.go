package assets

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  Key
	}{
		{"category keyword", Query{Category: "海鲜", Name: "三文鱼"}, KeyFish},
		{"unknown fruit", Query{Name: "未知水果"}, KeyUnresolved},
		{"empty query", Query{}, KeyUnresolved},
		{"english name", Query{Name: "Green Apple"}, KeyApple},
		{"chinese apple", Query{Name: "红富士"}, KeyApple},
		{"yogurt is dairy", Query{Name: "酸奶"}, KeyMilk},
		{"shrimp is fish", Query{Name: "虾"}, KeyFish},
		{"quail egg", Query{Name: "鹌鹑蛋"}, KeyEgg},
		{"uppercase", Query{Name: "MILK"}, KeyMilk},
		// Apple comes before egg in the rule table.
		{"first rule wins", Query{Category: "egg", Name: "apple"}, KeyApple},
		{"category only", Query{Category: "dairy milk"}, KeyMilk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.query); got != tt.want {
				t.Errorf("Resolve(%+v) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	queries := []Query{
		{Name: "鸡蛋"},
		{Category: "冷冻", Name: "鳕鱼"},
		{Name: "banana"},
	}
	for _, q := range queries {
		first := Resolve(q)
		for i := 0; i < 10; i++ {
			if got := Resolve(q); got != first {
				t.Fatalf("Resolve(%+v) changed from %v to %v", q, first, got)
			}
		}
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	r := Rules()
	if len(r) != 4 {
		t.Fatalf("expected 4 rules, got %d", len(r))
	}
	if r[0].Key != KeyApple || r[3].Key != KeyEgg {
		t.Errorf("unexpected rule order: %v ... %v", r[0].Key, r[3].Key)
	}

	r[0].Keywords[0] = "banana"
	if Resolve(Query{Name: "banana"}) != KeyUnresolved {
		t.Error("mutating Rules() result changed resolution")
	}
}

func TestParseKey(t *testing.T) {
	for _, k := range append(Keys(), KeyUnresolved) {
		got, err := ParseKey(k.String())
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", k.String(), err)
		}
		if got != k {
			t.Errorf("ParseKey(%q) = %v", k.String(), got)
		}
	}

	if _, err := ParseKey("durian"); err == nil {
		t.Error("expected error for unknown key")
	}

	var k Key
	if err := k.UnmarshalText([]byte(" Fish ")); err != nil || k != KeyFish {
		t.Errorf("UnmarshalText = %v, %v", k, err)
	}
	if s := Key(42).String(); s != "Key(42)" {
		t.Errorf("out of range String() = %q", s)
	}
}
