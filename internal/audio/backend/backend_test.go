package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnown(t *testing.T) {
	assert.True(t, Known(Speaker))
	assert.True(t, Known(Oto))
	assert.False(t, Known(""))
	assert.False(t, Known("jack"))
}
