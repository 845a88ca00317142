package constants

import "testing"

func TestDefaultScopeIncludesTableAndTemplate(t *testing.T) {
	for _, tag := range []string{"table", "template", "html", "td", "th"} {
		if !DefaultScope[tag] {
			t.Errorf("DefaultScope[%q] = false, want true", tag)
		}
	}
	if DefaultScope["div"] {
		t.Error("DefaultScope[\"div\"] = true, want false")
	}
}

func TestListItemScopeAddsOlUl(t *testing.T) {
	if !ListItemScope["ol"] || !ListItemScope["ul"] {
		t.Error("ListItemScope should terminate on ol/ul in addition to DefaultScope members")
	}
}

func TestButtonScopeAddsButton(t *testing.T) {
	if !ButtonScope["button"] {
		t.Error("ButtonScope should terminate on button")
	}
}

func TestTableScopeIsNarrow(t *testing.T) {
	if TableScope["td"] {
		t.Error("TableScope should not include td (unlike DefaultScope)")
	}
	if !TableScope["table"] || !TableScope["html"] || !TableScope["template"] {
		t.Error("TableScope should include table, html, template")
	}
}
