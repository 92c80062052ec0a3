package keys

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Session key role tags as used in artifact file names.
const (
	TagAura    = "aura"    // block production (sr25519)
	TagGrandpa = "grandpa" // finality voting (ed25519)
)

// Bundle holds the paths of the two session key artifacts for a validator.
// The artifacts are owned by the external key tool; the orchestrator only
// references them.
type Bundle struct {
	AuraPath    string
	GrandpaPath string
}

// Artifact is one entry of a key directory listing, enough to locate the
// most recent match without touching the filesystem again.
type Artifact struct {
	Name    string
	ModTime time.Time
}

// LocateBundle resolves the session key bundle for a node against a key
// directory listing. It is a pure function so the search order is unit
// testable without a filesystem.
//
// Search order, strictly most-specific first:
//  1. explicit paths from configuration
//  2. a listing entry containing both the derived node name and the role tag
//  3. the most recent listing entry containing just the role tag
//  4. SessionKeyNotFoundError
func LocateBundle(nodeName, keyDir, explicitAura, explicitGrandpa string, listing []Artifact) (Bundle, error) {
	aura, err := locateArtifact(nodeName, keyDir, TagAura, explicitAura, listing)
	if err != nil {
		return Bundle{}, err
	}
	grandpa, err := locateArtifact(nodeName, keyDir, TagGrandpa, explicitGrandpa, listing)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{AuraPath: aura, GrandpaPath: grandpa}, nil
}

func locateArtifact(nodeName, keyDir, tag, explicit string, listing []Artifact) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	for _, entry := range listing {
		if strings.Contains(entry.Name, nodeName) && strings.Contains(entry.Name, tag) {
			return filepath.Join(keyDir, entry.Name), nil
		}
	}

	var newest *Artifact
	for i, entry := range listing {
		if !strings.Contains(entry.Name, tag) {
			continue
		}
		if newest == nil || entry.ModTime.After(newest.ModTime) {
			newest = &listing[i]
		}
	}
	if newest != nil {
		return filepath.Join(keyDir, newest.Name), nil
	}

	return "", &SessionKeyNotFoundError{Tag: tag, Dir: keyDir}
}

// ListKeyDir reads the key directory into a listing for LocateBundle. A
// missing directory yields an empty listing, not an error: the search then
// falls through to SessionKeyNotFoundError with a useful message.
func ListKeyDir(keyDir string) ([]Artifact, error) {
	entries, err := os.ReadDir(keyDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	listing := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		listing = append(listing, Artifact{Name: entry.Name(), ModTime: info.ModTime()})
	}
	return listing, nil
}
