package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the well-known manifest filename inside a generated service
// root. At most one manifest exists per service.
const FileName = ".generated-manifest.json"

// ErrCorrupt marks a manifest file that exists but does not parse as JSON.
// Distinct from the absent case, which is normal on a first run; corruption
// requires operator intervention, not automatic recovery.
var ErrCorrupt = errors.New("manifest corrupt")

// PathFor returns the manifest path for an output directory.
func PathFor(outputDir string) string {
	return filepath.Join(outputDir, FileName)
}

// Write serializes the manifest as pretty-printed JSON at the well-known path
// inside outputDir, replacing any previous manifest wholesale. I/O failures
// propagate to the caller; there is no partial-write recovery, the operation
// is retried wholesale if at all.
func Write(outputDir string, m Manifest) error {
	p := PathFor(outputDir)

	file, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("creating manifest file %s: %w", p, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("encoding manifest %s: %w", p, err)
	}
	return nil
}

// Read loads the manifest from outputDir. A missing file returns found=false
// with a nil error. A file that exists but does not parse fails with an error
// matching ErrCorrupt.
func Read(outputDir string) (Manifest, bool, error) {
	p := PathFor(outputDir)

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return Manifest{}, false, nil
	}
	if err != nil {
		return Manifest{}, false, fmt.Errorf("reading manifest %s: %w", p, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, false, fmt.Errorf("parsing manifest %s: %w: %v", p, ErrCorrupt, err)
	}
	return m, true, nil
}
