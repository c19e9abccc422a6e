package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Faultbox/fridgeview/internal/fridge"
	"github.com/Faultbox/fridgeview/pkg/encoding"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
items:
  - id: "1"
    name: 三文鱼
    category: 海鲜
    quantity: "2"
    expiry_date: "2026-10-19"
  - id: "2"
    name: 牛奶
    node_name: Food_milk
`)

	objs, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []fridge.SceneObject{
		{ID: "1", DisplayName: "三文鱼", Category: "海鲜", Quantity: "2", ExpiryDate: "2026-10-19"},
		{ID: "2", DisplayName: "牛奶", AnchorNodeName: "Food_milk"},
	}
	if !reflect.DeepEqual(objs, want) {
		t.Errorf("objects = %+v, want %+v", objs, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"duplicate", "items:\n  - id: a\n  - id: a\n", ErrDuplicateID},
		{"missing id", "items:\n  - name: milk\n", ErrMissingID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content), 0)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), 0); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := Parse([]byte("items: [unterminated"), 0); err == nil {
		t.Error("invalid yaml should fail")
	}
}

func TestTruncate(t *testing.T) {
	var b strings.Builder
	b.WriteString("items:\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "  - id: \"%d\"\n    name: item%d\n", i, i)
	}

	objs, err := Parse([]byte(b.String()), 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(objs) != DefaultMaxObjects {
		t.Errorf("len = %d, want %d", len(objs), DefaultMaxObjects)
	}
	if objs[0].ID != "0" || objs[len(objs)-1].ID != "23" {
		t.Errorf("truncation should keep file order, got %s..%s", objs[0].ID, objs[len(objs)-1].ID)
	}

	objs, _ = Parse([]byte(b.String()), 5)
	if len(objs) != 5 {
		t.Errorf("len = %d, want 5", len(objs))
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inv.yaml")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	objs, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(objs, Default()) {
		t.Errorf("round trip = %+v", objs)
	}
}

func TestDefault(t *testing.T) {
	objs := Default()
	ids := make([]string, len(objs))
	for i, o := range objs {
		ids[i] = o.ID
	}
	if !reflect.DeepEqual(ids, []string{"apple", "milk", "egg"}) {
		t.Errorf("ids = %v", ids)
	}
	if objs[0].DisplayName != "苹果" || objs[0].AnchorNodeName != "Food_apple" {
		t.Errorf("apple = %+v", objs[0])
	}
}

func TestReconcile(t *testing.T) {
	objs := []fridge.SceneObject{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	tests := []struct {
		name string
		prev []string
		want []string
	}{
		{"keeps survivors", []string{"b", "x"}, []string{"b"}},
		{"none survive shows all", []string{"x"}, []string{"a", "b", "c"}},
		{"empty shows all", nil, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reconcile(tt.prev, objs); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Reconcile = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLegacyEncoding(t *testing.T) {
	data, err := encoding.FromUTF8("items:\n  - id: egg\n    name: 啊鸡蛋\n")
	if err != nil {
		t.Fatal(err)
	}

	objs, err := Parse(data, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(objs) != 1 || objs[0].DisplayName != "啊鸡蛋" {
		t.Errorf("objs = %+v, want one egg named 啊鸡蛋", objs)
	}
}
