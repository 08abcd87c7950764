// ABOUTME: Loads audio assets and volume tables from disk
// ABOUTME: Builds a string-keyed Library from a directory and Volumes from YAML
package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file types LoadLibrary picks up
var Extensions = []string{".mp3", ".flac", ".ogg", ".opus", ".wav", ".aif", ".aiff"}

// Key returns the asset key for a file name: its lowercased stem
func Key(name string) string {
	base := filepath.Base(name)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadLibrary reads every supported audio file directly inside dir.
// Subdirectories and hidden files are skipped. Two files with the same
// stem are an error.
func LoadLibrary(dir string) (audio.Library[string], error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset directory: %w", err)
	}

	library := make(audio.Library[string])
	sources := make(map[string]string)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !supported(name) {
			continue
		}

		key := Key(name)
		if prev, ok := sources[key]; ok {
			return nil, fmt.Errorf("duplicate asset key %q: %s and %s", key, prev, name)
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		library[key] = audio.NewBytes(data)
		sources[key] = name
	}

	log.Printf("Loaded %d audio assets from %s", len(library), dir)
	return library, nil
}

// LoadVolumes reads a YAML mapping of asset key to gain multiplier.
// A missing file yields an empty table.
func LoadVolumes(path string) (audio.Volumes[string], error) {
	volumes := make(audio.Volumes[string])
	if path == "" {
		return volumes, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return volumes, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read volumes: %w", err)
	}

	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse volumes: %w", err)
	}

	for k, v := range raw {
		volumes[strings.ToLower(k)] = v
	}
	return volumes, nil
}

// Keys returns the library's keys in sorted order
func Keys(library audio.Library[string]) []string {
	keys := make([]string, 0, len(library))
	for k := range library {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
