package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/tesso57/rssss/internal/application/settings"
)

// KeyMap defines the keybindings for the browser.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	AddFeed    key.Binding
	DeleteFeed key.Binding
	Upload     key.Binding
	Back       key.Binding
	Quit       key.Binding
	Help       key.Binding
}

// ShortHelp returns a subset of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddFeed, k.DeleteFeed, k.Upload, k.Quit, k.Help}
}

// FullHelp returns all keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.AddFeed, k.DeleteFeed, k.Upload},
		{k.Back, k.Quit, k.Help},
	}
}

// NewKeyMap creates a KeyMap from the configuration.
func NewKeyMap(cfg settings.KeyMapConfig) KeyMap {
	return KeyMap{
		Up:         binding(cfg.Up, "up"),
		Down:       binding(cfg.Down, "down"),
		Top:        binding(cfg.Top, "top"),
		Bottom:     binding(cfg.Bottom, "bottom"),
		AddFeed:    binding(cfg.AddFeed, "add"),
		DeleteFeed: binding(cfg.DeleteFeed, "delete"),
		Upload:     binding(cfg.Upload, "upload"),
		Back:       binding(cfg.Back, "back"),
		Quit:       binding(cfg.Quit, "quit"),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	}
}

func binding(keys, desc string) key.Binding {
	names := splitKeys(keys)
	if len(names) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(key.WithKeys(names...), key.WithHelp(names[0], desc))
}

func splitKeys(keys string) []string {
	parts := strings.Split(keys, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		keyName := strings.TrimSpace(part)
		if keyName == "" {
			continue
		}
		out = append(out, keyName)
		switch keyName {
		case "pgdn":
			out = append(out, "pgdown")
		case "pgdown":
			out = append(out, "pgdn")
		}
	}
	return out
}
