package ui

import "github.com/DevonLowjamski/canopy/engine/colors"

// Kind identifies a registered element type (panel, label, badge, ...).
type Kind string

// TexQuality is the texture-resolution hint applied by the LOD machinery.
type TexQuality int

const (
	TexFull TexQuality = iota
	TexHalf
	TexQuarter
)

// Element is a node in the retained UI tree. Concrete kinds embed Common
// and provide their own content reset on top of the Base reset.
type Element interface {
	Node() *Base
	Kind() Kind
	// Reset restores the element to its freshly constructed state. Any
	// visual state not restored here leaks across pool reuse.
	Reset()
	// Destroy releases element resources. After Destroy the element must
	// not be used again.
	Destroy()
}

// Base carries the visual state shared by every element kind: the tree
// links, transform, visibility and styling the optimizer manipulates.
type Base struct {
	kind     Kind
	parent   Element
	children []Element

	position [2]float32 // absolute screen position, set by layout
	offset   [2]float32 // layout offset relative to parent
	size     [2]float32
	rotation float32
	scale    [2]float32

	visible    bool
	enabled    bool
	opacity    float32
	color      colors.Color
	styles     []string
	material   string
	overlay    bool // modal/overlay root; descendants are never occluded
	opaque     bool
	shadows    bool
	animations bool
	texQuality TexQuality
}

func (b *Base) initDefaults(kind Kind) {
	b.kind = kind
	b.visible = true
	b.enabled = true
	b.opacity = 1
	b.scale = [2]float32{1, 1}
	b.shadows = true
	b.animations = true
	b.texQuality = TexFull
}

func (b *Base) Parent() Element        { return b.parent }
func (b *Base) Children() []Element    { return b.children }
func (b *Base) Pos() (x, y float32)    { return b.position[0], b.position[1] }
func (b *Base) Offset() (x, y float32) { return b.offset[0], b.offset[1] }
func (b *Base) Size() (w, h float32)   { return b.size[0], b.size[1] }
func (b *Base) Rotation() float32      { return b.rotation }
func (b *Base) ScaleXY() (x, y float32) {
	return b.scale[0], b.scale[1]
}
func (b *Base) Visible() bool          { return b.visible }
func (b *Base) Enabled() bool          { return b.enabled }
func (b *Base) Opacity() float32       { return b.opacity }
func (b *Base) Color() colors.Color    { return b.color }
func (b *Base) Styles() []string       { return b.styles }
func (b *Base) Material() string       { return b.material }
func (b *Base) Overlay() bool          { return b.overlay }
func (b *Base) Opaque() bool           { return b.opaque }
func (b *Base) Shadows() bool          { return b.shadows }
func (b *Base) Animations() bool       { return b.animations }
func (b *Base) TexQuality() TexQuality { return b.texQuality }

func (b *Base) SetPos(x, y float32)           { b.position = [2]float32{x, y} }
func (b *Base) SetOffset(x, y float32)        { b.offset = [2]float32{x, y} }
func (b *Base) SetSize(w, h float32)          { b.size = [2]float32{w, h} }
func (b *Base) SetRotation(rad float32)       { b.rotation = rad }
func (b *Base) SetScale(x, y float32)         { b.scale = [2]float32{x, y} }
func (b *Base) SetVisible(v bool)             { b.visible = v }
func (b *Base) SetEnabled(v bool)             { b.enabled = v }
func (b *Base) SetOpacity(a float32)          { b.opacity = a }
func (b *Base) SetColor(c colors.Color)       { b.color = c }
func (b *Base) SetMaterial(m string)          { b.material = m }
func (b *Base) SetOverlay(v bool)             { b.overlay = v }
func (b *Base) SetOpaque(v bool)              { b.opaque = v }
func (b *Base) SetShadows(v bool)             { b.shadows = v }
func (b *Base) SetAnimations(v bool)          { b.animations = v }
func (b *Base) SetTexQuality(q TexQuality)    { b.texQuality = q }
func (b *Base) AddStyle(class string)         { b.styles = append(b.styles, class) }
func (b *Base) ClearStyles()                  { b.styles = b.styles[:0] }
func (b *Base) HasStyle(class string) bool {
	for _, s := range b.styles {
		if s == class {
			return true
		}
	}
	return false
}

// Bounds returns the element's screen-space rectangle with scale applied.
// Position is absolute; Layout resolves offsets into positions.
func (b *Base) Bounds() Rect {
	return Rect{
		X: b.position[0],
		Y: b.position[1],
		W: b.size[0] * b.scale[0],
		H: b.size[1] * b.scale[1],
	}
}

// AddChild appends a child and reparents it to owner.
func (b *Base) AddChild(owner, child Element) {
	b.children = append(b.children, child)
	child.Node().parent = owner
}

// RemoveChild detaches child if present.
func (b *Base) RemoveChild(child Element) {
	for i, c := range b.children {
		if c == child {
			b.children = append(b.children[:i], b.children[i+1:]...)
			child.Node().parent = nil
			return
		}
	}
}

// Detach removes the element from its parent, if any.
func Detach(el Element) {
	if p := el.Node().parent; p != nil {
		p.Node().RemoveChild(el)
	}
}

// resetBase restores everything Base owns: transform, visibility and
// styling. The caller detaches the element from its parent first (see
// Detach); children are detached here, not destroyed — the pool owns their
// lifecycle independently.
func (b *Base) resetBase() {
	kind := b.kind
	for len(b.children) > 0 {
		b.RemoveChild(b.children[len(b.children)-1])
	}
	styles := b.styles[:0]
	children := b.children[:0]
	*b = Base{}
	b.initDefaults(kind)
	b.styles = styles
	b.children = children
}
