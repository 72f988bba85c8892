// Package manifest builds and persists the record of a generation run: when
// it ran, which generator produced it, which models and files it covered, and
// which paths it is never allowed to touch again.
package manifest

import (
	"time"

	"github.com/pullstream/constructors/core/protected"
)

// GeneratorVersion is stamped into every manifest. Bump on any change to the
// generation algorithm or the output layout so consumers can detect drift.
const GeneratorVersion = "2.3.0"

// ModelEntry records one domain model included in a generation run.
type ModelEntry struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	FieldCount int    `json:"fieldCount"`
}

// Manifest is the JSON record written at the root of a generated service.
// A fresh manifest is built on every run and fully replaces the previous one.
type Manifest struct {
	GeneratedAt      time.Time    `json:"generatedAt"`
	GeneratorVersion string       `json:"generatorVersion"`
	MicroserviceID   string       `json:"microserviceId"`
	MicroserviceName string       `json:"microserviceName"`
	ProtectedPaths   []string     `json:"protectedPaths"`
	Models           []ModelEntry `json:"models"`
	GeneratedFiles   []string     `json:"generatedFiles"`
}

// Build constructs a manifest snapshot from the inputs gathered during one
// generation run. Pure construction: stamps the current time and the fixed
// generator version, snapshots the protected list so later changes to it do
// not alter this manifest, and drops any file path covered by a protected
// prefix from generatedFiles.
func Build(microserviceID, microserviceName string, models []ModelEntry, files []string, prot *protected.List) Manifest {
	if prot == nil {
		prot = protected.NewList()
	}

	m := Manifest{
		GeneratedAt:      time.Now().UTC(),
		GeneratorVersion: GeneratorVersion,
		MicroserviceID:   microserviceID,
		MicroserviceName: microserviceName,
		ProtectedPaths:   prot.Snapshot(),
		Models:           make([]ModelEntry, len(models)),
		GeneratedFiles:   make([]string, 0, len(files)),
	}
	copy(m.Models, models)

	for _, f := range files {
		if prot.Covers(f) {
			continue
		}
		m.GeneratedFiles = append(m.GeneratedFiles, f)
	}
	return m
}
