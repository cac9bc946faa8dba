package ui

import (
	"testing"

	"github.com/DevonLowjamski/canopy/engine/colors"
)

func TestRegistryBuildsEveryBuiltinKind(t *testing.T) {
	for _, k := range []Kind{KindPanel, KindLabel, KindBadge, KindMeter} {
		el, ok := New(k)
		if !ok {
			t.Fatalf("kind %s not registered", k)
		}
		if el.Kind() != k {
			t.Fatalf("factory for %s built %s", k, el.Kind())
		}
	}
	if _, ok := New("hologram"); ok {
		t.Fatalf("unknown kind produced an element")
	}
	if Registered("hologram") {
		t.Fatalf("unknown kind reported registered")
	}
}

func TestBaseDefaults(t *testing.T) {
	b := NewBadge()
	n := b.Node()
	if !n.Visible() || !n.Enabled() {
		t.Fatalf("fresh element not displayable")
	}
	if n.Opacity() != 1 {
		t.Fatalf("opacity %v", n.Opacity())
	}
	sx, sy := n.ScaleXY()
	if sx != 1 || sy != 1 {
		t.Fatalf("scale %v,%v", sx, sy)
	}
	if !n.Shadows() || !n.Animations() || n.TexQuality() != TexFull {
		t.Fatalf("quality defaults wrong")
	}
	if w, h := n.Size(); w != 12 || h != 12 {
		t.Fatalf("badge default size %vx%v", w, h)
	}
}

func TestResetRestoresConstructedState(t *testing.T) {
	parent := NewPanel()
	l := NewLabel().Text("97%").FontSize(22).Material("hud").Style("warning")
	l.Node().SetOpacity(0.3)
	l.Node().SetShadows(false)
	l.Node().SetTexQuality(TexQuarter)
	l.Node().SetColor(colors.AlertRed)
	parent.Node().AddChild(parent, l)

	child := NewBadge()
	l.Node().AddChild(l, child)

	l.Reset()

	if l.Node().Parent() != nil {
		t.Fatalf("reset element still parented")
	}
	if len(parent.Node().Children()) != 0 {
		t.Fatalf("parent still holds reset child")
	}
	if len(l.Node().Children()) != 0 || child.Node().Parent() != nil {
		t.Fatalf("children not detached on reset")
	}
	if l.TextValue() != "" || l.FontSizeValue() != 16 {
		t.Fatalf("label content survived reset")
	}
	if l.Node().Opacity() != 1 || !l.Node().Shadows() || l.Node().TexQuality() != TexFull {
		t.Fatalf("quality state survived reset")
	}
	if l.Node().Material() != "" || len(l.Node().Styles()) != 0 {
		t.Fatalf("styling survived reset")
	}
	if l.Node().Color() != colors.White {
		t.Fatalf("label color %v, want white", l.Node().Color())
	}
}

func TestRemoveChildAndDetach(t *testing.T) {
	p := NewPanel()
	a := NewBadge()
	b := NewBadge()
	p.Node().AddChild(p, a)
	p.Node().AddChild(p, b)

	p.Node().RemoveChild(a)
	if len(p.Node().Children()) != 1 || p.Node().Children()[0] != Element(b) {
		t.Fatalf("remove dropped the wrong child")
	}
	if a.Node().Parent() != nil {
		t.Fatalf("removed child kept its parent")
	}
	p.Node().RemoveChild(a) // absent: no-op

	Detach(b)
	if len(p.Node().Children()) != 0 {
		t.Fatalf("detach left the child attached")
	}
	Detach(b) // orphan: no-op
}

func TestPanelFlowHorizontal(t *testing.T) {
	p := NewPanel().Position(100, 50).Gap(4).Padding(8)
	a := NewBadge().Size(20, 10)
	b := NewBadge().Size(30, 16)
	p.Node().AddChild(p, a)
	p.Node().AddChild(p, b)

	Layout(p)

	if x, y := a.Node().Pos(); x != 108 || y != 58 {
		t.Fatalf("first child at %v,%v", x, y)
	}
	if x, y := b.Node().Pos(); x != 132 || y != 58 {
		t.Fatalf("second child at %v,%v", x, y)
	}
	// panel grows to wrap content plus padding
	if w, h := p.Node().Size(); w != 70 || h != 32 {
		t.Fatalf("panel sized %vx%v", w, h)
	}
}

func TestPanelFlowVertical(t *testing.T) {
	p := NewPanel().Vertical().Gap(2).Padding4(4, 6, 4, 6)
	a := NewBadge().Size(20, 10)
	b := NewBadge().Size(12, 14)
	p.Node().AddChild(p, a)
	p.Node().AddChild(p, b)

	Layout(p)

	if _, y := a.Node().Offset(); y != 6 {
		t.Fatalf("first offset y %v", y)
	}
	if _, y := b.Node().Offset(); y != 18 {
		t.Fatalf("second offset y %v", y)
	}
	if w, h := p.Node().Size(); w != 28 || h != 38 {
		t.Fatalf("panel sized %vx%v", w, h)
	}
}

func TestLayoutResolvesNestedOffsets(t *testing.T) {
	root := NewPanel().Position(10, 10)
	inner := NewPanel()
	leaf := NewBadge().Size(5, 5)
	root.Node().AddChild(root, inner)
	inner.Node().AddChild(inner, leaf)

	Layout(root)

	ix, iy := inner.Node().Pos()
	lx, ly := leaf.Node().Pos()
	if ix != 10 || iy != 10 {
		t.Fatalf("inner at %v,%v", ix, iy)
	}
	if lx != 10 || ly != 10 {
		t.Fatalf("leaf at %v,%v", lx, ly)
	}
}

func TestFluentBuilderReturnsOwner(t *testing.T) {
	m := NewMeter().Position(5, 5).Size(40, 6).Fill(colors.Amber).Value(1.5)
	if m.ValueOf() != 1 {
		t.Fatalf("value not clamped: %v", m.ValueOf())
	}
	if m.FillColor() != colors.Amber {
		t.Fatalf("fill %v", m.FillColor())
	}
	m.Value(-2)
	if m.ValueOf() != 0 {
		t.Fatalf("negative value accepted: %v", m.ValueOf())
	}
}

func TestStyles(t *testing.T) {
	b := NewBadge().Style("alert").Style("pulse")
	if !b.Node().HasStyle("alert") || !b.Node().HasStyle("pulse") {
		t.Fatalf("styles missing")
	}
	if b.Node().HasStyle("calm") {
		t.Fatalf("phantom style")
	}
	b.Node().ClearStyles()
	if len(b.Node().Styles()) != 0 {
		t.Fatalf("styles survived clear")
	}
}

func TestBoundsAppliesScale(t *testing.T) {
	b := NewBadge().Position(10, 20).Size(10, 10).Scale(2, 3)
	r := b.Node().Bounds()
	if r.X != 10 || r.Y != 20 || r.W != 20 || r.H != 30 {
		t.Fatalf("bounds %+v", r)
	}
}

func TestChildrenBuilder(t *testing.T) {
	a := NewBadge()
	b := NewBadge()
	p := NewPanel().Children(a, b)
	if len(p.Node().Children()) != 2 {
		t.Fatalf("children builder attached %d", len(p.Node().Children()))
	}
	if a.Node().Parent() != Element(p) {
		t.Fatalf("child not reparented")
	}
}
