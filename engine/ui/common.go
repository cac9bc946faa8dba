package ui

import "github.com/DevonLowjamski/canopy/engine/colors"

// Common gives every element kind the shared Base plus a fluent builder
// that returns the concrete owner type.
type Common[T any] struct {
	owner T
	base  Base
}

func NewCommon[T any](owner T, kind Kind) Common[T] {
	var b Base
	b.initDefaults(kind)
	return Common[T]{owner: owner, base: b}
}

func (c *Common[T]) Node() *Base { return &c.base }
func (c *Common[T]) Kind() Kind  { return c.base.kind }

func (c *Common[T]) Position(x, y float32) T   { c.base.SetPos(x, y); return c.owner }
func (c *Common[T]) Offset(x, y float32) T     { c.base.SetOffset(x, y); return c.owner }
func (c *Common[T]) Size(w, h float32) T       { c.base.SetSize(w, h); return c.owner }
func (c *Common[T]) Color(col colors.Color) T  { c.base.SetColor(col); return c.owner }
func (c *Common[T]) Opacity(a float32) T       { c.base.SetOpacity(a); return c.owner }
func (c *Common[T]) Material(m string) T       { c.base.SetMaterial(m); return c.owner }
func (c *Common[T]) Style(class string) T      { c.base.AddStyle(class); return c.owner }
func (c *Common[T]) Visible(v bool) T          { c.base.SetVisible(v); return c.owner }
func (c *Common[T]) Overlay() T                { c.base.SetOverlay(true); return c.owner }
func (c *Common[T]) Opaque() T                 { c.base.SetOpaque(true); return c.owner }
func (c *Common[T]) Scale(x, y float32) T      { c.base.SetScale(x, y); return c.owner }
func (c *Common[T]) Rotation(rad float32) T    { c.base.SetRotation(rad); return c.owner }

func (c *Common[T]) Children(kids ...Element) T {
	for _, k := range kids {
		c.base.AddChild(any(c.owner).(Element), k)
	}
	return c.owner
}
