package codec

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fabtopo/internal/domain"
)

// Input and output format identifiers
const (
	FormatAuto        = "auto"
	FormatSnapshotXML = "snapshot-xml"
	FormatTopologyXML = "topology-xml"
	FormatYAML        = "yaml"
	FormatNetloc      = "netloc"
	FormatJSON        = "json"
)

// Importer interface for decoding inventory reports into a snapshot
type Importer interface {
	Parse(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// Exporter interface for rendering one subnet of a topology
type Exporter interface {
	Export(topo *domain.Topology, subnetID string, w io.Writer) error
	Format() string
	Extension() string
}

// NewImporter returns the importer registered for format
func NewImporter(format string) (Importer, error) {
	switch format {
	case FormatSnapshotXML:
		return NewSnapshotXMLCodec(), nil
	case FormatTopologyXML:
		return NewTopologyXMLCodec(), nil
	case FormatYAML:
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
}

// NewExporter returns the exporter registered for format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case FormatNetloc:
		return NewNetlocCodec(), nil
	case FormatJSON:
		return NewJSONCodec(), nil
	case FormatYAML:
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// DetectFormat guesses an input format from a file name and the first
// bytes of its content
func DetectFormat(name string, head []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}

	trimmed := bytes.TrimSpace(head)
	if !bytes.HasPrefix(trimmed, []byte("<")) {
		return FormatYAML
	}
	if bytes.Contains(trimmed, []byte("<FIs>")) || bytes.Contains(trimmed, []byte("<LinkSummary>")) {
		return FormatTopologyXML
	}
	return FormatSnapshotXML
}
