package tempo

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	MinTempo = 40
	MaxTempo = 300

	DefaultTempo = 100
)

// Clamp pulls bpm into [MinTempo, MaxTempo]. Out of range input is never an
// error.
func Clamp(bpm int) int {
	if bpm < MinTempo {
		return MinTempo
	}
	if bpm > MaxTempo {
		return MaxTempo
	}
	return bpm
}

// Measure is the number of beats per measure.
type Measure int

// Measures lists the supported measures in cycling order.
var Measures = []Measure{2, 3, 4}

const DefaultMeasure Measure = 4

func (m Measure) Valid() bool {
	for _, v := range Measures {
		if v == m {
			return true
		}
	}
	return false
}

// Next returns the measure following m, wrapping to the first one. An unknown
// measure restarts the cycle.
func (m Measure) Next() Measure {
	for i, v := range Measures {
		if v == m {
			return Measures[(i+1)%len(Measures)]
		}
	}
	return Measures[0]
}

func (m Measure) String() string {
	return strconv.Itoa(int(m)) + "/4"
}

// ParseMeasure accepts either a bare beat count ("3") or a time signature
// with a quarter note value ("3/4").
func ParseMeasure(input string) (Measure, error) {
	parts := strings.Split(strings.TrimSpace(input), "/")
	if len(parts) > 2 {
		return 0, errors.Errorf("invalid time signature format %q", input)
	}

	beats, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number in time signature %q", input)
	}
	if len(parts) == 2 {
		noteValue, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, errors.Wrapf(err, "invalid number in time signature %q", input)
		}
		if noteValue != 4 {
			return 0, errors.Errorf("time signature %q not supported", input)
		}
	}

	m := Measure(beats)
	if !m.Valid() {
		return 0, errors.Errorf("time signature %q not supported", input)
	}
	return m, nil
}
