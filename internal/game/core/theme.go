package core

import "strings"

// Color is a packed 0xRRGGBB value.
type Color uint32

// Theme supplies per-core visuals. Implementations must be stateless.
type Theme interface {
	Name() string
	Color(c CoreType) Color
	Sound(kind EffectKind) string
}

// ClassicTheme is the stock palette.
type ClassicTheme struct{}

func (ClassicTheme) Name() string { return "classic" }

func (ClassicTheme) Color(c CoreType) Color {
	switch c {
	case CoreEmber:
		return 0xFF6A1F
	case CoreVerdant:
		return 0x3FCF5A
	case CoreTidal:
		return 0x2A9DF4
	case CoreStorm:
		return 0xE8E04A
	case CoreMirror:
		return 0xC8D4E0
	case CoreCosmic:
		return 0x8A4FFF
	default:
		return 0xFFFFFF
	}
}

func (ClassicTheme) Sound(kind EffectKind) string {
	switch kind {
	case EffectDamage:
		return "core_hit"
	case EffectHeal:
		return "core_heal"
	case EffectMark:
		return "core_mark"
	case EffectDodge, EffectReflect:
		return "core_guard"
	default:
		return ""
	}
}

// AstralTheme renders every core in night-sky tones with one shared sound set.
type AstralTheme struct{}

func (AstralTheme) Name() string { return "astral" }

func (AstralTheme) Color(c CoreType) Color {
	// Тон темнеет с ростом tier.
	shade := Color(0xE0 - 0x18*uint32(c.Tier()))
	return 0x202060 | shade<<16 | shade
}

func (AstralTheme) Sound(kind EffectKind) string {
	if kind == EffectMarkFizzle {
		return ""
	}
	return "astral_chime"
}

// ThemeByName returns the named theme, ClassicTheme for unknown names.
func ThemeByName(name string) Theme {
	switch strings.ToLower(name) {
	case "astral":
		return AstralTheme{}
	default:
		return ClassicTheme{}
	}
}
