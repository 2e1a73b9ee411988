package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// Palette is the set of semantic colors the shell is drawn with. Info,
// Warning and Error double as notification level accents.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Info       color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
}

// DefaultTheme is used when the config does not name a theme.
const DefaultTheme = "tokyo-night"

type namedPalette struct {
	name    string
	palette Palette
}

// builtinThemes in the order they are listed to users, default first.
var builtinThemes = []namedPalette{
	{
		name: "tokyo-night",
		palette: Palette{
			Primary:    lipgloss.Color("#7aa2f7"),
			Secondary:  lipgloss.Color("#bb9af7"),
			Foreground: lipgloss.Color("#c0caf5"),
			Muted:      lipgloss.Color("#565f89"),
			Background: lipgloss.Color("#1a1b26"),
			Surface:    lipgloss.Color("#292e42"),
			Info:       lipgloss.Color("#7dcfff"),
			Success:    lipgloss.Color("#9ece6a"),
			Warning:    lipgloss.Color("#e0af68"),
			Error:      lipgloss.Color("#f7768e"),
		},
	},
	{
		name: "gruvbox",
		palette: Palette{
			Primary:    lipgloss.Color("#fe8019"),
			Secondary:  lipgloss.Color("#d3869b"),
			Foreground: lipgloss.Color("#ebdbb2"),
			Muted:      lipgloss.Color("#928374"),
			Background: lipgloss.Color("#282828"),
			Surface:    lipgloss.Color("#3c3836"),
			Info:       lipgloss.Color("#83a598"),
			Success:    lipgloss.Color("#b8bb26"),
			Warning:    lipgloss.Color("#fabd2f"),
			Error:      lipgloss.Color("#fb4934"),
		},
	},
}

// ThemeNames lists the built-in themes, default first.
func ThemeNames() []string {
	names := make([]string, len(builtinThemes))
	for i, t := range builtinThemes {
		names[i] = t.name
	}
	return names
}

// GetPalette looks up a built-in theme by name.
func GetPalette(name string) (Palette, bool) {
	for _, t := range builtinThemes {
		if t.name == name {
			return t.palette, true
		}
	}
	return Palette{}, false
}

func mustPalette(name string) Palette {
	p, ok := GetPalette(name)
	if !ok {
		panic("styles: unknown built-in theme " + name)
	}
	return p
}
