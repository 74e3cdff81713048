// Package metadata stamps generated reports with a run id and a content hash
// so later edits to a report can be detected.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// TagStart is the start of the metadata block.
	TagStart = "<!-- PESERTAGEN_START"
	// TagEnd is the end of the metadata block.
	TagEnd = "PESERTAGEN_END -->"
)

// Metadata verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata describes the run that produced a report.
type Metadata struct {
	RunID     string
	Generated time.Time
	Hash      string
}

// metadataRegex matches the entire metadata block including tags.
var metadataRegex = regexp.MustCompile(`(?s)\s*<!--\s*PESERTAGEN_START\s*\n(.*?)\n\s*PESERTAGEN_END\s*-->`)

// Extract returns the metadata block of content, if any, and the content
// without it. The cleaned content is what gets hashed.
func Extract(content string) (*Metadata, string) {
	match := metadataRegex.FindStringSubmatch(content)
	clean := strings.TrimRight(metadataRegex.ReplaceAllString(content, ""), "\n")

	if len(match) < 2 {
		return nil, clean
	}

	meta := &Metadata{}

	for _, line := range strings.Split(match[1], "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		val = strings.TrimSpace(val)

		switch strings.TrimSpace(key) {
		case "RUN_ID":
			meta.RunID = val
		case "GENERATED":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.Generated = t
			}
		case "HASH":
			meta.Hash = val
		}
	}

	return meta, clean
}

// CalculateHash computes the SHA-256 hash of the content excluding metadata.
func CalculateHash(content string) string {
	_, clean := Extract(content)
	hash := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(hash[:])
}

// Stamp appends the metadata block, replacing any existing one.
func Stamp(content, runID string, at time.Time) string {
	_, clean := Extract(content)

	return clean + fmt.Sprintf("\n\n%s\nRUN_ID: %s\nGENERATED: %s\nHASH: %s\n%s\n",
		TagStart, runID, at.UTC().Format(time.RFC3339), CalculateHash(clean), TagEnd)
}

// Verify checks that content still matches the hash in its metadata.
func Verify(content string) (*Metadata, error) {
	meta, clean := Extract(content)
	if meta == nil {
		return nil, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return meta, ErrNoHashFound
	}

	if calculated := CalculateHash(clean); calculated != meta.Hash {
		return meta, errors.Wrapf(ErrHashMismatch, "expected %s, got %s", meta.Hash, calculated)
	}

	return meta, nil
}
