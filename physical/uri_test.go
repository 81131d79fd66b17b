package physical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSerialURI(t *testing.T) {
	tests := []struct {
		name      string
		uri       string
		wantCfg   SerialConfig
		wantProto string
		wantErr   bool
	}{
		{
			name:      "rtu with all params",
			uri:       "rtu:///dev/ttyUSB0?baud=19200&dataBits=8&parity=E&stopBits=2",
			wantCfg:   SerialConfig{Device: "/dev/ttyUSB0", BaudRate: 19200, DataBits: 8, Parity: "E", StopBits: 2},
			wantProto: "rtu",
		},
		{
			name:      "ascii with defaults",
			uri:       "ascii:///dev/ttyUSB1",
			wantCfg:   SerialConfig{Device: "/dev/ttyUSB1", BaudRate: 9600, DataBits: 8, Parity: "N", StopBits: 1},
			wantProto: "ascii",
		},
		{
			name:    "wrong scheme",
			uri:     "tcp://127.0.0.1:502",
			wantErr: true,
		},
		{
			name:    "invalid baud",
			uri:     "rtu:///dev/ttyUSB0?baud=fast",
			wantErr: true,
		},
		{
			name:    "invalid parity",
			uri:     "rtu:///dev/ttyUSB0?parity=X",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, proto, err := ParseSerialURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCfg, cfg)
			assert.Equal(t, tt.wantProto, proto)
		})
	}
}

func TestParseTCPURI(t *testing.T) {
	addr, timeout, err := ParseTCPURI("tcp://127.0.0.1:502?dialTimeout=2s")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:502", addr)
	assert.Equal(t, 2*time.Second, timeout)

	_, _, err = ParseTCPURI("udp://127.0.0.1:502")
	require.Error(t, err)

	addr, timeout, err = ParseTCPURI("tcp://127.0.0.1:502")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:502", addr)
	assert.Equal(t, 5*time.Second, timeout)
}
