// Package config loads the YAML device configuration: sensor ODR and
// sensitivity selectors, the serial transport's path and baud, ring buffer
// depths, and the streaming toggles the dispatch loop starts with.
// Defaults apply first, then the file overrides whatever keys it names.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/holmestyler/pensel/internal/constants"
)

// DeviceConfig is the top-level YAML document shape.
type DeviceConfig struct {
	Serial    SerialConfig    `yaml:"serial"`
	Sensor    SensorConfig    `yaml:"sensor"`
	Queues    QueueConfig     `yaml:"queues"`
	Streaming StreamingConfig `yaml:"streaming"`
	LogLevel  string          `yaml:"log_level"`

	// CalibrationPath locates the calibration blob; a missing file fails
	// validation at bring-up and factory defaults are written there.
	CalibrationPath string `yaml:"calibration_path"`
}

// SerialConfig names the transport device and baud. Baud is not applied
// to the port: transport.OpenSerialPort always configures 250000 baud, and
// the serve command only echoes this value in its startup log line.
type SerialConfig struct {
	Path string `yaml:"path"`
	Baud uint32 `yaml:"baud"`
}

// SensorConfig carries the raw ODR/sensitivity selector bytes report 0x20
// passes straight through to the sensor driver.
type SensorConfig struct {
	AccelODR         uint8 `yaml:"accel_odr"`
	AccelSensitivity uint8 `yaml:"accel_sensitivity"`
	MagODR           uint8 `yaml:"mag_odr"`
	MagSensitivity   uint8 `yaml:"mag_sensitivity"`
}

// QueueConfig sizes the two sensor packet ring buffers.
type QueueConfig struct {
	AccelDepth uint32 `yaml:"accel_depth"`
	MagDepth   uint32 `yaml:"mag_depth"`
}

// StreamingConfig controls which stream reports the dispatch loop emits
// from startup.
type StreamingConfig struct {
	RawAccel      bool `yaml:"raw_accel"`
	FilteredAccel bool `yaml:"filtered_accel"`
	RawMag        bool `yaml:"raw_mag"`
	FilteredMag   bool `yaml:"filtered_mag"`
}

// Default returns a sensible configuration: a common USB-serial path,
// default ODRs, and all streams off (a host must opt in explicitly, as in
// the original firmware's power-on state).
func Default() DeviceConfig {
	return DeviceConfig{
		Serial: SerialConfig{
			Path: "/dev/ttyUSB0",
			Baud: 250000,
		},
		Sensor: SensorConfig{
			AccelODR: 0,
			MagODR:   0,
		},
		Queues: QueueConfig{
			AccelDepth: constants.DefaultAccelQueueDepth,
			MagDepth:   constants.DefaultMagQueueDepth,
		},
		LogLevel:        "info",
		CalibrationPath: "pensel-cal.json",
	}
}

// Load reads and parses a DeviceConfig from a YAML file at path, filling
// any field the file omits from Default().
func Load(path string) (DeviceConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return DeviceConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DeviceConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
