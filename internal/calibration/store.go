// Package calibration implements the narrow load/validate/defaults
// contract the core relies on for the calibration blob; the persistence
// format itself is opaque to the core, only the interface matters. The
// interface is owned by the core rather than by whichever implementation
// happens to exist.
package calibration

import (
	"encoding/json"
	"errors"
	"os"
)

// ErrInvalid is returned by CheckValidity when the loaded blob fails its
// validity marker check (cal_checkValidity returning anything but RET_OK
// in the original firmware).
var ErrInvalid = errors.New("calibration: invalid")

// Blob is the in-memory calibration data the core treats as opaque beyond
// the Valid marker. Field names and layout are a minimal placeholder, not
// a re-specification of the real on-chip format (explicitly out of scope).
type Blob struct {
	Valid         bool      `json:"valid"`
	AccelOffset   [3]int16  `json:"accel_offset"`
	MagOffset     [3]int16  `json:"mag_offset"`
	MagScale      [3]float32 `json:"mag_scale"`
}

// defaultBlob mirrors cal_loadDefaults(): zero offsets, unit scale, marked
// valid so a freshly-defaulted device doesn't immediately fail its own
// validity check.
func defaultBlob() Blob {
	return Blob{
		Valid:    true,
		MagScale: [3]float32{1, 1, 1},
	}
}

// FileStore persists a Blob as JSON at a fixed path, standing in for the
// on-chip flash sector cal_loadFromFlash/cal_checkValidity/cal_loadDefaults
// operate on.
type FileStore struct {
	path string
	blob Blob
}

// NewFileStore constructs a FileStore bound to path. No load is performed
// until LoadFromFlash is called, matching the original's explicit
// load-then-validate sequence at boot (pensel_v1.c's main()).
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadFromFlash reads the blob from disk. A missing file is not an error:
// it leaves the store's blob zeroed (Valid: false), which CheckValidity
// will then reject, matching a blank flash sector.
func (s *FileStore) LoadFromFlash() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.blob = Blob{}
		return nil
	}
	if err != nil {
		return err
	}
	var blob Blob
	if err := json.Unmarshal(data, &blob); err != nil {
		return err
	}
	s.blob = blob
	return nil
}

// CheckValidity reports whether the loaded blob's validity marker is set.
func (s *FileStore) CheckValidity() error {
	if !s.blob.Valid {
		return ErrInvalid
	}
	return nil
}

// LoadDefaults resets the in-memory blob to factory defaults and persists
// it, mirroring cal_loadDefaults() being the recovery path after a failed
// CheckValidity.
func (s *FileStore) LoadDefaults() {
	s.blob = defaultBlob()
	_ = s.save()
}

// Blob returns the currently loaded calibration data.
func (s *FileStore) Blob() Blob { return s.blob }

func (s *FileStore) save() error {
	data, err := json.Marshal(s.blob)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// DefaultStore is a purely in-memory store that starts blank, like a
// device with nothing in flash: the first CheckValidity fails and
// LoadDefaults recovers. Used by the sim command and tests that don't
// want a file on disk.
type DefaultStore struct {
	blob Blob
}

// NewDefaultStore constructs an empty in-memory store.
func NewDefaultStore() *DefaultStore {
	return &DefaultStore{}
}

// LoadFromFlash is a no-op: there is no backing flash.
func (s *DefaultStore) LoadFromFlash() error { return nil }

// CheckValidity reports whether the blob's validity marker is set.
func (s *DefaultStore) CheckValidity() error {
	if !s.blob.Valid {
		return ErrInvalid
	}
	return nil
}

// LoadDefaults resets the blob to factory defaults.
func (s *DefaultStore) LoadDefaults() {
	s.blob = defaultBlob()
}

// Blob returns the currently loaded calibration data.
func (s *DefaultStore) Blob() Blob { return s.blob }
