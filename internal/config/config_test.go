package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Path)
	assert.EqualValues(t, 250000, cfg.Serial.Baud)
	assert.False(t, cfg.Streaming.RawAccel)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pensel.yaml")

	doc := `
serial:
  path: /dev/ttyACM0
  baud: 250000
sensor:
  accel_odr: 3
  mag_odr: 2
streaming:
  raw_accel: true
  filtered_mag: true
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Path)
	assert.EqualValues(t, 3, cfg.Sensor.AccelODR)
	assert.True(t, cfg.Streaming.RawAccel)
	assert.True(t, cfg.Streaming.FilteredMag)
	assert.False(t, cfg.Streaming.RawMag)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Fields the override omits still come from Default().
	assert.EqualValues(t, cfg.Queues.AccelDepth, Default().Queues.AccelDepth)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/pensel.yaml")
	assert.Error(t, err)
}
