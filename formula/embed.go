package formula

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

//go:embed formulas/*.formula.toml
var builtinFS embed.FS

// builtinDir is the embed path of the builtin formula library.
const builtinDir = "formulas"

// installedRecordName is the checksum record kept next to installed
// formulas.
const installedRecordName = ".installed.json"

// FormulaState classifies a workspace copy of a builtin formula.
type FormulaState string

const (
	StateOK        FormulaState = "ok"        // matches the builtin
	StateOutdated  FormulaState = "outdated"  // builtin changed, workspace copy untouched
	StateModified  FormulaState = "modified"  // user edited the workspace copy
	StateMissing   FormulaState = "missing"   // installed before, deleted since
	StateNew       FormulaState = "new"       // builtin never installed
	StateUntracked FormulaState = "untracked" // present with no install record
)

// InstalledRecord maps formula filenames to the sha256 recorded when
// they were installed. Stored as .installed.json in the workspace
// formulas directory.
type InstalledRecord struct {
	Formulas map[string]string `json:"formulas"`
}

// FormulaStatus is one row of a health report.
type FormulaStatus struct {
	Name          string
	State         FormulaState
	BuiltinHash   string // hash of the embedded content
	InstalledHash string // hash recorded at install time
	CurrentHash   string // hash of the workspace file, if present
}

// HealthReport summarizes every builtin formula against its workspace
// copy.
type HealthReport struct {
	Formulas []FormulaStatus
	Counts   map[FormulaState]int
}

// FormulasDir returns the formulas directory inside a workspace.
func FormulasDir(workspace string) string {
	return filepath.Join(workspace, ".beads", "formulas")
}

// BuiltinFormulas parses every embedded formula, keyed by filename.
func BuiltinFormulas() (map[string]*Formula, error) {
	names, err := builtinNames()
	if err != nil {
		return nil, err
	}
	parsed := make(map[string]*Formula, len(names))
	for _, name := range names {
		content, err := builtinFS.ReadFile(builtinDir + "/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading builtin %s: %w", name, err)
		}
		f, err := Parse(content)
		if err != nil {
			return nil, fmt.Errorf("parsing builtin %s: %w", name, err)
		}
		parsed[name] = f
	}
	return parsed, nil
}

// builtinNames returns the embedded formula filenames, sorted.
func builtinNames() ([]string, error) {
	entries, err := builtinFS.ReadDir(builtinDir)
	if err != nil {
		return nil, fmt.Errorf("reading builtin formulas: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// builtinHashes returns filename -> sha256 for every embedded formula.
func builtinHashes() (map[string]string, error) {
	names, err := builtinNames()
	if err != nil {
		return nil, err
	}
	hashes := make(map[string]string, len(names))
	for _, name := range names {
		content, err := builtinFS.ReadFile(builtinDir + "/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading builtin %s: %w", name, err)
		}
		hashes[name] = hashBytes(content)
	}
	return hashes, nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// classify derives a formula's state from the three-way hash comparison
// between builtin content, the recorded install, and the workspace file.
func classify(builtinHash, installedHash, currentHash string, wasInstalled, onDisk bool) FormulaState {
	switch {
	case !onDisk && wasInstalled:
		return StateMissing
	case !onDisk:
		return StateNew
	case currentHash == builtinHash:
		return StateOK
	case wasInstalled && currentHash == installedHash:
		return StateOutdated
	case wasInstalled:
		return StateModified
	default:
		return StateUntracked
	}
}

func loadInstalledRecord(dir string) (*InstalledRecord, error) {
	data, err := os.ReadFile(filepath.Join(dir, installedRecordName))
	if os.IsNotExist(err) {
		return &InstalledRecord{Formulas: make(map[string]string)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading installed record: %w", err)
	}
	var r InstalledRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing installed record: %w", err)
	}
	if r.Formulas == nil {
		r.Formulas = make(map[string]string)
	}
	return &r, nil
}

func saveInstalledRecord(dir string, record *InstalledRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding installed record: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, installedRecordName), data, 0644)
}

// fileHash hashes a workspace file. onDisk is false when the file does
// not exist.
func fileHash(path string) (hash string, onDisk bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return hashBytes(data), true, nil
}

// ProvisionFormulas copies the builtin formulas into a workspace,
// skipping any file already present so user customizations survive.
// Installed checksums are recorded for later health checks. Returns the
// number of formulas written.
func ProvisionFormulas(workspace string) (int, error) {
	hashes, err := builtinHashes()
	if err != nil {
		return 0, err
	}

	dir := FormulasDir(workspace)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating formulas directory: %w", err)
	}

	record, err := loadInstalledRecord(dir)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, name := range sortedKeys(hashes) {
		dest := filepath.Join(dir, name)
		if _, err := os.Stat(dest); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			continue
		}

		content, err := builtinFS.ReadFile(builtinDir + "/" + name)
		if err != nil {
			return count, fmt.Errorf("reading builtin %s: %w", name, err)
		}
		if err := os.WriteFile(dest, content, 0644); err != nil {
			return count, fmt.Errorf("writing %s: %w", name, err)
		}
		record.Formulas[name] = hashes[name]
		count++
	}

	if err := saveInstalledRecord(dir, record); err != nil {
		return count, fmt.Errorf("saving installed record: %w", err)
	}
	return count, nil
}

// CheckFormulaHealth reports the state of every builtin formula's
// workspace copy.
func CheckFormulaHealth(workspace string) (*HealthReport, error) {
	hashes, err := builtinHashes()
	if err != nil {
		return nil, err
	}

	dir := FormulasDir(workspace)
	record, err := loadInstalledRecord(dir)
	if err != nil {
		return nil, err
	}

	report := &HealthReport{Counts: make(map[FormulaState]int)}
	for _, name := range sortedKeys(hashes) {
		installedHash, wasInstalled := record.Formulas[name]
		currentHash, onDisk, err := fileHash(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("hashing %s: %w", name, err)
		}

		state := classify(hashes[name], installedHash, currentHash, wasInstalled, onDisk)
		report.Counts[state]++
		report.Formulas = append(report.Formulas, FormulaStatus{
			Name:          name,
			State:         state,
			BuiltinHash:   hashes[name],
			InstalledHash: installedHash,
			CurrentHash:   currentHash,
		})
	}
	return report, nil
}

// UpdateFormulas brings workspace formulas up to date where that is
// safe: outdated, untracked, and never-installed formulas are written,
// deleted ones are reinstalled, and user-modified files are skipped.
func UpdateFormulas(workspace string) (updated, skipped, reinstalled int, err error) {
	hashes, err := builtinHashes()
	if err != nil {
		return 0, 0, 0, err
	}

	dir := FormulasDir(workspace)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, 0, 0, fmt.Errorf("creating formulas directory: %w", err)
	}

	record, err := loadInstalledRecord(dir)
	if err != nil {
		return 0, 0, 0, err
	}

	for _, name := range sortedKeys(hashes) {
		installedHash, wasInstalled := record.Formulas[name]
		dest := filepath.Join(dir, name)
		currentHash, onDisk, hashErr := fileHash(dest)
		if hashErr != nil {
			continue
		}

		switch classify(hashes[name], installedHash, currentHash, wasInstalled, onDisk) {
		case StateOK:
			continue
		case StateModified:
			skipped++
			continue
		case StateMissing:
			if err := installBuiltin(dest, name, hashes[name], record); err != nil {
				return updated, skipped, reinstalled, err
			}
			reinstalled++
		default: // outdated, untracked, new
			if err := installBuiltin(dest, name, hashes[name], record); err != nil {
				return updated, skipped, reinstalled, err
			}
			updated++
		}
	}

	if err := saveInstalledRecord(dir, record); err != nil {
		return updated, skipped, reinstalled, fmt.Errorf("saving installed record: %w", err)
	}
	return updated, skipped, reinstalled, nil
}

// installBuiltin writes one builtin formula to dest and records its hash.
func installBuiltin(dest, name, hash string, record *InstalledRecord) error {
	content, err := builtinFS.ReadFile(builtinDir + "/" + name)
	if err != nil {
		return fmt.Errorf("reading builtin %s: %w", name, err)
	}
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	record.Formulas[name] = hash
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
