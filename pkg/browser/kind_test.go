package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{input: "chrome", want: Chrome},
		{input: "CHROME", want: Chrome},
		{input: " Firefox ", want: Firefox},
		{input: "edge", want: Edge},
		{input: "safari", wantErr: true},
		{input: "SAFARI", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedBrowserKind)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindChromium(t *testing.T) {
	assert.True(t, Chrome.chromium())
	assert.True(t, Edge.chromium())
	assert.False(t, Firefox.chromium())
}
