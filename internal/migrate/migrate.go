// Package migrate applies ordered, one-way schema transformations to the
// on-disk data layout, gated by a `.schema_version` file (§4.9). Its
// Register/Run registration idiom is modeled on internal/doctor's
// Check/Report pattern, applied to an ordered version list instead of
// idempotent health checks.
package migrate

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/agent-of-empires/aoe/internal/util"
)

// Migration is one numbered, named, one-way schema step.
type Migration struct {
	Version int
	Name    string
	Run     func(dataDir string) error
}

var registry []Migration

// Register adds a migration to the ordered list. Panics at init time if
// the version is not strictly greater than the last registered one, since
// the list must stay in version order (mirrors the registry-completeness
// panic in internal/agent).
func Register(m Migration) {
	if len(registry) > 0 && m.Version <= registry[len(registry)-1].Version {
		panic(fmt.Sprintf("migrate: version %d registered out of order after %d", m.Version, registry[len(registry)-1].Version))
	}
	registry = append(registry, m)
}

// All returns every registered migration in version order.
func All() []Migration {
	return append([]Migration{}, registry...)
}

// SchemaVersionPath returns the .schema_version path under a data dir.
func SchemaVersionPath(dataDir string) string {
	return dataDir + "/.schema_version"
}

// CurrentVersion reads .schema_version from dataDir. A missing file means
// schema version 0 (never migrated).
func CurrentVersion(dataDir string) (int, error) {
	data, err := os.ReadFile(SchemaVersionPath(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", SchemaVersionPath(dataDir), err)
	}
	return v, nil
}

// WriteVersion writes .schema_version atomically (§4.7 atomic-write
// discipline applies here too), creating dataDir first if it is missing.
func WriteVersion(dataDir string, version int) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	return util.AtomicWriteFile(SchemaVersionPath(dataDir), []byte(strconv.Itoa(version)), 0o644)
}

// Run applies every registered migration whose version is greater than
// the current version found across knownDataDirs (§4.9: "Determine
// current version by reading .schema_version from any known data dir, for
// discovery across relocations"), writing the new version to
// currentDataDir after each step. Fails fast on the first error (§7:
// migration failure is fatal, exit 2).
func Run(knownDataDirs []string, currentDataDir string) error {
	current := 0
	for _, dir := range knownDataDirs {
		v, err := CurrentVersion(dir)
		if err != nil {
			return err
		}
		if v > current {
			current = v
		}
	}

	for _, m := range registry {
		if m.Version <= current {
			continue
		}
		if err := m.Run(currentDataDir); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		if err := WriteVersion(currentDataDir, m.Version); err != nil {
			return fmt.Errorf("migration %d (%s): writing schema version: %w", m.Version, m.Name, err)
		}
		current = m.Version
	}
	return nil
}
