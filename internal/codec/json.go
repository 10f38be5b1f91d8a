package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"fabtopo/internal/domain"
)

// JSONCodec exports a subnet as an indented JSON document
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return FormatJSON
}

// Extension returns the file extension of exported documents
func (c *JSONCodec) Extension() string {
	return ".json"
}

// Export exports one subnet to JSON
func (c *JSONCodec) Export(topo *domain.Topology, subnetID string, w io.Writer) error {
	doc, err := newSubnetDocument(topo, subnetID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
