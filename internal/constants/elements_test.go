package constants

import "testing"

func TestVoidElements(t *testing.T) {
	for _, tag := range []string{"br", "img", "input", "hr"} {
		if !VoidElements[tag] {
			t.Errorf("VoidElements[%q] = false, want true", tag)
		}
	}
	if VoidElements["div"] {
		t.Error("VoidElements[\"div\"] = true, want false")
	}
}

func TestSpecialElementsCoversSectioningAndTableTags(t *testing.T) {
	for _, tag := range []string{"div", "table", "td", "select", "template", "html"} {
		if !SpecialElements[tag] {
			t.Errorf("SpecialElements[%q] = false, want true", tag)
		}
	}
	if SpecialElements["span"] {
		t.Error("SpecialElements[\"span\"] = true, want false (span is not special)")
	}
}

func TestFormattingElements(t *testing.T) {
	for _, tag := range []string{"a", "b", "i", "nobr"} {
		if !FormattingElements[tag] {
			t.Errorf("FormattingElements[%q] = false, want true", tag)
		}
	}
}

func TestSVGTagNameAdjustments(t *testing.T) {
	if got := SVGTagNameAdjustments["foreignobject"]; got != "foreignObject" {
		t.Errorf("SVGTagNameAdjustments[\"foreignobject\"] = %q, want \"foreignObject\"", got)
	}
}

func TestForeignAttributeAdjustments(t *testing.T) {
	adj, ok := ForeignAttributeAdjustments["xlink:href"]
	if !ok {
		t.Fatal("expected xlink:href to have a foreign attribute adjustment")
	}
	if adj.Prefix != "xlink" || adj.LocalName != "href" || adj.NamespaceURL != NamespaceXLink {
		t.Errorf("unexpected adjustment for xlink:href: %+v", adj)
	}
}

func TestHTMLIntegrationPoints(t *testing.T) {
	if !HTMLIntegrationPoints[IntegrationPoint{Namespace: NamespaceSVG, LocalName: "foreignObject"}] {
		t.Error("expected svg foreignObject to be an HTML integration point")
	}
}

func TestForeignBreakoutElements(t *testing.T) {
	if !ForeignBreakoutElements["div"] {
		t.Error("expected div to be a foreign breakout element")
	}
	if ForeignBreakoutElements["circle"] {
		t.Error("circle should not be a breakout element")
	}
}
