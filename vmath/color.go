package vmath

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Color is a straight-alpha RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGBA returns an opaque-or-not color from 0-255 channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// Hex parses "#rrggbb" into an opaque color.
func Hex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	return FromColorful(c, 1), nil
}

// FromColorful converts a go-colorful color and an alpha value.
func FromColorful(c colorful.Color, alpha float32) Color {
	c = c.Clamped()
	return Color{float32(c.R), float32(c.G), float32(c.B), alpha}
}

// Colorful returns the RGB part as a go-colorful color.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// Hex formats the RGB part as "#rrggbb".
func (c Color) Hex() string {
	return c.Colorful().Clamped().Hex()
}

// Lerp interpolates every channel linearly in sRGB space.
func (c Color) Lerp(o Color, t float32) Color {
	return Color{Lerp(c.R, o.R, t), Lerp(c.G, o.G, t), Lerp(c.B, o.B, t), Lerp(c.A, o.A, t)}
}

// LerpHcl blends in HCL space, taking the shorter way around the hue circle.
// Alpha is interpolated linearly.
func (c Color) LerpHcl(o Color, t float32) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return o
	}
	blended := c.Colorful().BlendHcl(o.Colorful(), float64(t))
	return FromColorful(blended, Lerp(c.A, o.A, t))
}

// LerpLab blends in CIE L*a*b* space. Alpha is interpolated linearly.
func (c Color) LerpLab(o Color, t float32) Color {
	blended := c.Colorful().BlendLab(o.Colorful(), float64(t))
	return FromColorful(blended, Lerp(c.A, o.A, t))
}
