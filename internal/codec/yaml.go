package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"fabtopo/internal/domain"
)

// YAMLCodec imports inventories written as YAML records and exports
// subnets as YAML documents
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return FormatYAML
}

// Extension returns the file extension of exported documents
func (c *YAMLCodec) Extension() string {
	return ".yaml"
}

// Parse imports an inventory snapshot from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ValidateSnapshot(&snap); err != nil {
		return nil, fmt.Errorf("invalid inventory: %w", err)
	}
	return &snap, nil
}

// Export exports one subnet to YAML
func (c *YAMLCodec) Export(topo *domain.Topology, subnetID string, w io.Writer) error {
	doc, err := newSubnetDocument(topo, subnetID)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
