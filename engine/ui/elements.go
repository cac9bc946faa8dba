package ui

import "github.com/DevonLowjamski/canopy/engine/colors"

// Builtin element kinds. Games register additional kinds at startup.
const (
	KindPanel Kind = "panel"
	KindLabel Kind = "label"
	KindBadge Kind = "badge"
	KindMeter Kind = "meter"
)

func init() {
	Register(KindPanel, func() Element { return NewPanel() })
	Register(KindLabel, func() Element { return NewLabel() })
	Register(KindBadge, func() Element { return NewBadge() })
	Register(KindMeter, func() Element { return NewMeter() })
}

// ===== Panel =====

// Panel is a colored container that flows its children along one axis.
type Panel struct {
	Common[*Panel]
	vertical bool
	gap      float32
	padding  [4]float32 // left, top, right, bottom
}

func NewPanel() *Panel {
	p := &Panel{}
	p.Common = NewCommon(p, KindPanel)
	return p
}

func (p *Panel) Vertical() *Panel     { p.vertical = true; return p }
func (p *Panel) Gap(g float32) *Panel { p.gap = g; return p }

func (p *Panel) Padding(all float32) *Panel {
	p.padding = [4]float32{all, all, all, all}
	return p
}
func (p *Panel) Padding4(l, t, r, b float32) *Panel {
	p.padding = [4]float32{l, t, r, b}
	return p
}

// Flow recomputes child offsets along the panel's axis and resizes the
// panel to fit. Absolute positions are assigned afterwards by Layout.
func (p *Panel) Flow() {
	cursor := [2]float32{p.padding[0], p.padding[1]}
	var maxCross float32
	for i, c := range p.base.children {
		if i > 0 {
			if p.vertical {
				cursor[1] += p.gap
			} else {
				cursor[0] += p.gap
			}
		}
		c.Node().SetOffset(cursor[0], cursor[1])
		cb := c.Node().Bounds()
		if p.vertical {
			cursor[1] += cb.H
			if cb.W > maxCross {
				maxCross = cb.W
			}
		} else {
			cursor[0] += cb.W
			if cb.H > maxCross {
				maxCross = cb.H
			}
		}
	}
	if p.vertical {
		p.base.SetSize(maxCross+p.padding[0]+p.padding[2], cursor[1]+p.padding[3])
	} else {
		p.base.SetSize(cursor[0]+p.padding[2], maxCross+p.padding[1]+p.padding[3])
	}
}

func (p *Panel) Reset() {
	Detach(p)
	p.base.resetBase()
	p.vertical = false
	p.gap = 0
	p.padding = [4]float32{}
}

func (p *Panel) Destroy() {
	p.Reset()
	p.base.SetEnabled(false)
}

// ===== Label =====

// Label is a text-bearing element. Size is assigned by whoever measures
// the text against a font; the tree itself is font-agnostic.
type Label struct {
	Common[*Label]
	text     string
	fontSize float32
}

func NewLabel() *Label {
	l := &Label{fontSize: 16}
	l.Common = NewCommon(l, KindLabel)
	l.base.SetColor(colors.White)
	return l
}

func (l *Label) Text(s string) *Label       { l.text = s; return l }
func (l *Label) FontSize(px float32) *Label { l.fontSize = px; return l }
func (l *Label) TextValue() string          { return l.text }
func (l *Label) FontSizeValue() float32     { return l.fontSize }

func (l *Label) Reset() {
	Detach(l)
	l.base.resetBase()
	l.text = ""
	l.fontSize = 16
	l.base.SetColor(colors.White)
}

func (l *Label) Destroy() {
	l.Reset()
	l.base.SetEnabled(false)
}

// ===== Badge =====

// Badge is a small iconic marker (plant status, alert dot) drawn as a
// colored quad with an optional material key for batching.
type Badge struct {
	Common[*Badge]
}

func NewBadge() *Badge {
	b := &Badge{}
	b.Common = NewCommon(b, KindBadge)
	b.base.SetSize(12, 12)
	return b
}

func (b *Badge) Reset() {
	Detach(b)
	b.base.resetBase()
	b.base.SetSize(12, 12)
}

func (b *Badge) Destroy() {
	b.Reset()
	b.base.SetEnabled(false)
}

// ===== Meter =====

// Meter is a horizontal progress bar (growth, resource levels).
type Meter struct {
	Common[*Meter]
	value float32 // [0,1]
	fill  colors.Color
}

func NewMeter() *Meter {
	m := &Meter{fill: colors.Leaf}
	m.Common = NewCommon(m, KindMeter)
	m.base.SetSize(80, 8)
	m.base.SetColor(colors.Black.WithAlpha(0.4))
	return m
}

func (m *Meter) Value(v float32) *Meter {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	m.value = v
	return m
}

func (m *Meter) Fill(c colors.Color) *Meter { m.fill = c; return m }
func (m *Meter) ValueOf() float32           { return m.value }
func (m *Meter) FillColor() colors.Color    { return m.fill }

func (m *Meter) Reset() {
	Detach(m)
	m.base.resetBase()
	m.value = 0
	m.fill = colors.Leaf
	m.base.SetSize(80, 8)
	m.base.SetColor(colors.Black.WithAlpha(0.4))
}

func (m *Meter) Destroy() {
	m.Reset()
	m.base.SetEnabled(false)
}

// Layout assigns absolute positions from offsets, depth first, starting at
// the root's current position. Panels flow their children first.
func Layout(root Element) {
	if p, ok := root.(*Panel); ok {
		p.Flow()
	}
	px, py := root.Node().Pos()
	for _, c := range root.Node().Children() {
		ox, oy := c.Node().Offset()
		c.Node().SetPos(px+ox, py+oy)
		Layout(c)
	}
}
