package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimfu/clacktap/internal/clock"
	"github.com/dimfu/clacktap/internal/metronome"
	"github.com/dimfu/clacktap/internal/scheduler"
	"github.com/dimfu/clacktap/internal/tempo"
)

func TestDefaultBindings(t *testing.T) {
	b, err := NewBindings(nil)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(ActionPlay, b.Lookup(keyboard.KeyEvent{Key: keyboard.KeySpace}))
	assert.Equal(ActionPlay, b.Lookup(keyboard.KeyEvent{Rune: ' '}))
	assert.Equal(ActionMute, b.Lookup(keyboard.KeyEvent{Rune: 'm'}))
	assert.Equal(ActionMute, b.Lookup(keyboard.KeyEvent{Rune: 'M'}))
	assert.Equal(ActionVisualAid, b.Lookup(keyboard.KeyEvent{Rune: 'v'}))
	assert.Equal(ActionTap, b.Lookup(keyboard.KeyEvent{Rune: 't'}))
	assert.Equal(ActionTap, b.Lookup(keyboard.KeyEvent{Key: keyboard.KeyEnter}))
	assert.Equal(ActionMeasure, b.Lookup(keyboard.KeyEvent{Rune: 'b'}))
	assert.Equal(ActionTempoUp, b.Lookup(keyboard.KeyEvent{Key: keyboard.KeyArrowUp}))
	assert.Equal(ActionTempoDown, b.Lookup(keyboard.KeyEvent{Key: keyboard.KeyArrowDown}))
	assert.Equal(ActionQuit, b.Lookup(keyboard.KeyEvent{Rune: 'q'}))
	assert.Equal(ActionQuit, b.Lookup(keyboard.KeyEvent{Key: keyboard.KeyCtrlC}))
	assert.Equal(ActionNone, b.Lookup(keyboard.KeyEvent{Rune: 'z'}))
}

func TestOverrideBindings(t *testing.T) {
	b, err := NewBindings(map[string]string{"tap": "x, Y"})
	require.NoError(t, err)

	assert.Equal(t, ActionTap, b.Lookup(keyboard.KeyEvent{Rune: 'x'}))
	assert.Equal(t, ActionTap, b.Lookup(keyboard.KeyEvent{Rune: 'y'}))
	assert.Equal(t, ActionNone, b.Lookup(keyboard.KeyEvent{Rune: 't'}))
	assert.Contains(t, b.Help(), "x/y tap tempo")
}

func TestBadBindings(t *testing.T) {
	_, err := NewBindings(map[string]string{"dance": "d"})
	assert.Error(t, err)

	_, err = NewBindings(map[string]string{"tap": "ctrl+shift"})
	assert.Error(t, err)

	_, err = NewBindings(map[string]string{"tap": "m"})
	assert.Error(t, err, "m is already mute")
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("Space")
	require.NoError(t, err)
	assert.Equal(t, Key{Code: keyboard.KeySpace}, k)

	k, err = ParseKey(" ")
	require.NoError(t, err)
	assert.Equal(t, Key{Code: keyboard.KeySpace}, k)

	k, err = ParseKey("+")
	require.NoError(t, err)
	assert.Equal(t, Key{Rune: '+'}, k)
}

func TestApply(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	m := metronome.New(fake, nopClicker{}, metronome.Options{Tempo: 120})

	assert.True(t, Apply(m, ActionTempoUp))
	assert.Equal(t, 121, m.State().Tempo)
	Apply(m, ActionTempoDown)
	Apply(m, ActionTempoDown)
	assert.Equal(t, 119, m.State().Tempo)

	Apply(m, ActionPlay)
	assert.True(t, m.State().Playing)
	Apply(m, ActionTap)
	assert.False(t, m.State().Playing)

	Apply(m, ActionMute)
	assert.True(t, m.State().Muted)
	Apply(m, ActionVisualAid)
	assert.True(t, m.State().VisualAid)
	Apply(m, ActionMeasure)
	assert.Equal(t, tempo.Measure(2), m.State().Measure)

	assert.False(t, Apply(m, ActionQuit))
}

type nopClicker struct{}

func (nopClicker) PlayClick(bool) {}
func (nopClicker) SetMuted(bool)  {}

func TestViewShowsState(t *testing.T) {
	s := metronome.State{Tempo: 132, Measure: 3, Beat: 1, Playing: true, Muted: true}
	v := View(s, "space play/stop")

	assert.Contains(t, v, "BPM: 132")
	assert.Contains(t, v, "3/4")
	assert.Contains(t, v, "[muted]")
	assert.NotContains(t, v, "[visual]")
	assert.Contains(t, v, "playing")
	assert.Contains(t, v, "space play/stop")
	for _, n := range []string{"1", "2", "3"} {
		assert.Contains(t, v, n)
	}
}

func TestLine(t *testing.T) {
	assert.Equal(t, "bpm=100 measure=4/4 beat=- stopped",
		Line(metronome.State{Tempo: 100, Measure: 4, Beat: scheduler.NotStarted}))
	assert.Equal(t, "bpm=90 measure=2/4 beat=1! playing",
		Line(metronome.State{Tempo: 90, Measure: 2, Beat: 0, Accented: true, Playing: true}))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRendererPlainSkipsRepeats(t *testing.T) {
	var out syncBuffer
	r := NewRenderer(&out, false, "")

	s := metronome.State{Tempo: 100, Measure: 4, Beat: scheduler.NotStarted}
	r.Update(s)
	r.Flush()
	r.Flush()
	s.Tempo = 101
	r.Update(s)

	assert.Eventually(t, func() bool {
		return strings.Count(out.String(), "\n") == 2
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), "bpm=101")
}

func TestRendererLive(t *testing.T) {
	var out syncBuffer
	r := NewRenderer(&out, true, "q quit")

	r.Update(metronome.State{Tempo: 200, Measure: 2, Beat: 0, Playing: true})
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "BPM: 200")
	}, time.Second, 5*time.Millisecond)
}
