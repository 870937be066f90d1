package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMixedFracInch(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{1.25, `1 1/4"`},
		{2.75, `2 3/4"`},
		{1.1, `1 1/10"`},
		{5.0, `5"`},
		{0.2, `1/5"`},
		{0.0, `0"`},
		{-1.0, `-1"`},
		{-10.3, `-10 3/10"`},
		{0.203125, `13/64"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MixedFracInch(tt.value), "value %v", tt.value)
	}
}
