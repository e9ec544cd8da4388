package cache

import "fmt"

// Keyer derives cache keys.
type Keyer interface {
	// DocumentKey identifies a generated document.
	DocumentKey(docHash string, opts DocumentKeyOpts) string

	// ArtifactKey identifies a rendered artifact.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DocumentKeyOpts lists the inputs that change generated callouts.
type DocumentKeyOpts struct {
	Page       string   `json:"page,omitempty"`
	Frames     []string `json:"frames,omitempty"`
	ConfigHash string   `json:"config_hash,omitempty"`
}

// ArtifactKeyOpts lists the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Page   string  `json:"page,omitempty"`
	Scale  float64 `json:"scale,omitempty"`

	EmbedFonts bool `json:"embed_fonts,omitempty"`
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey hashes the document together with its options.
func (DefaultKeyer) DocumentKey(docHash string, opts DocumentKeyOpts) string {
	return hashKey("document", docHash, opts)
}

// ArtifactKey keeps the format readable in the key for easier debugging.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), docHash, opts)
}
