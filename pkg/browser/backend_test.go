package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "selenium grid", raw: "http://localhost:4444/wd/hub"},
		{name: "https grid", raw: "https://hub.example.com/wd/hub"},
		{name: "playwright server", raw: "ws://127.0.0.1:3000/"},
		{name: "secure playwright server", raw: "wss://browsers.example.com/pw"},
		{name: "surrounding whitespace", raw: "  http://localhost:4444/wd/hub  "},
		{name: "empty", raw: "", wantErr: true},
		{name: "blank", raw: "   ", wantErr: true},
		{name: "no scheme", raw: "localhost:4444", wantErr: true},
		{name: "unsupported scheme", raw: "ftp://grid.test", wantErr: true},
		{name: "missing host", raw: "http:///wd/hub", wantErr: true},
		{name: "unparseable", raw: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := parseEndpoint(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEndpoint)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, u.Host)
		})
	}
}
