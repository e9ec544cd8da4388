package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if errors.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath returns the file an artifact is written to. A single artifact
// goes to output verbatim when one is given.
func artifactPath(output, input, format string, single bool) string {
	if single && output != "" && filepath.Ext(output) != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// artifactWriteParams describes a batch of rendered artifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
}

// writeArtifacts writes each artifact in format order and prints its path.
func writeArtifacts(p artifactWriteParams) error {
	single := len(p.formats) == 1
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(p.output, p.input, format, single)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		printFile(path)
	}
	if p.cacheHit {
		printDetail("served from cache")
	}
	return nil
}

// documentOutput returns where a modified document is saved: output when
// given, the input file otherwise.
func documentOutput(output, input string) (string, error) {
	if output == "" {
		return input, nil
	}
	if err := errors.ValidateDocumentPath(output); err != nil {
		return "", err
	}
	return output, nil
}

// saveDocument writes doc and prints the path.
func saveDocument(doc *scene.Document, path string) error {
	if err := scene.Save(doc, path); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// describeFormats lists formats for log messages.
func describeFormats(formats []string) string {
	f := slices.Clone(formats)
	slices.Sort(f)
	return strings.Join(f, ", ")
}
