package ui

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
)

type Action int

const (
	ActionNone Action = iota
	ActionPlay
	ActionMute
	ActionVisualAid
	ActionTap
	ActionMeasure
	ActionTempoUp
	ActionTempoDown
	ActionQuit
)

var actionNames = map[string]Action{
	"play":       ActionPlay,
	"mute":       ActionMute,
	"visual":     ActionVisualAid,
	"tap":        ActionTap,
	"measure":    ActionMeasure,
	"tempo_up":   ActionTempoUp,
	"tempo_down": ActionTempoDown,
	"quit":       ActionQuit,
}

func (a Action) String() string {
	for name, v := range actionNames {
		if v == a {
			return name
		}
	}
	return "none"
}

// DefaultKeys maps action names to comma separated key names.
func DefaultKeys() map[string]string {
	return map[string]string{
		"play":       "space",
		"mute":       "m",
		"visual":     "v",
		"tap":        "t,enter",
		"measure":    "b",
		"tempo_up":   "up",
		"tempo_down": "down",
		"quit":       "q,esc",
	}
}

// Key identifies a key press: either a special key code or a rune.
type Key struct {
	Code keyboard.Key
	Rune rune
}

var namedKeys = map[string]keyboard.Key{
	"space": keyboard.KeySpace,
	"enter": keyboard.KeyEnter,
	"esc":   keyboard.KeyEsc,
	"tab":   keyboard.KeyTab,
	"up":    keyboard.KeyArrowUp,
	"down":  keyboard.KeyArrowDown,
	"left":  keyboard.KeyArrowLeft,
	"right": keyboard.KeyArrowRight,
}

// ParseKey accepts a key name such as "space" or "up", or a single character.
func ParseKey(name string) (Key, error) {
	if name == " " {
		return Key{Code: keyboard.KeySpace}, nil
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if code, ok := namedKeys[name]; ok {
		return Key{Code: code}, nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return Key{Rune: r}, nil
	}
	return Key{}, errors.Errorf("unknown key %q", name)
}

// Bindings resolves key presses to actions.
type Bindings struct {
	keys  map[Key]Action
	names map[Action][]string
}

// NewBindings builds bindings from the defaults overridden by keys. An
// override replaces every default key of its action.
func NewBindings(keys map[string]string) (*Bindings, error) {
	merged := DefaultKeys()
	for action, names := range keys {
		merged[strings.ToLower(action)] = names
	}

	b := &Bindings{keys: map[Key]Action{}, names: map[Action][]string{}}
	for name, keyList := range merged {
		action, ok := actionNames[name]
		if !ok {
			return nil, errors.Errorf("unknown action %q", name)
		}
		for _, keyName := range strings.Split(keyList, ",") {
			key, err := ParseKey(keyName)
			if err != nil {
				return nil, errors.Wrapf(err, "binding %s", name)
			}
			if other, taken := b.keys[key]; taken && other != action {
				return nil, errors.Errorf("key %q bound to both %s and %s", keyName, other, action)
			}
			b.keys[key] = action
			b.names[action] = append(b.names[action], strings.ToLower(strings.TrimSpace(keyName)))
		}
	}
	return b, nil
}

// Lookup translates a keyboard event. Ctrl-C always quits.
func (b *Bindings) Lookup(ev keyboard.KeyEvent) Action {
	if ev.Key == keyboard.KeyCtrlC {
		return ActionQuit
	}

	key := Key{Code: ev.Key}
	if ev.Key == 0 {
		if ev.Rune == ' ' {
			key = Key{Code: keyboard.KeySpace}
		} else {
			key = Key{Rune: unicode.ToLower(ev.Rune)}
		}
	}
	return b.keys[key]
}

// Help is a one-line summary of the bindings.
func (b *Bindings) Help() string {
	labels := []struct {
		action Action
		label  string
	}{
		{ActionPlay, "play/stop"},
		{ActionMute, "mute"},
		{ActionVisualAid, "visual aid"},
		{ActionTempoUp, "bpm+"},
		{ActionTempoDown, "bpm-"},
		{ActionMeasure, "beats"},
		{ActionTap, "tap tempo"},
		{ActionQuit, "quit"},
	}

	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		names := append([]string(nil), b.names[l.action]...)
		sort.Strings(names)
		parts = append(parts, strings.Join(names, "/")+" "+l.label)
	}
	return strings.Join(parts, " · ")
}
