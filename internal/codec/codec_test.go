package codec

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const inventoryYAML = `nodes:
  - guid: "0x0011750101000001"
    description: compute-node-42 hfi1_0
    type_code: 1
    ports:
      - id: "0x0011750101000001:1"
        number: "1"
        subnet_prefix: "0xfe80000000000000"
        link_width: "8"
        link_speed: "2"
  - guid: "0x0011750102000001"
    description: edge01
    type_code: 2
    ports:
      - number: "1"
        subnet_prefix: "0xfe80000000000000"
links:
  - a: {guid: "0x0011750101000001", port: "1"}
    b: {guid: "0x0011750102000001", port: "1"}
declared:
  links: 1
`

func TestYAMLParse(t *testing.T) {
	snap, err := NewYAMLCodec().Parse(strings.NewReader(inventoryYAML))
	require.NoError(t, err)

	require.Len(t, snap.Nodes, 2)
	assert.Equal(t, "compute-node-42 hfi1_0", snap.Nodes[0].Description)
	assert.Equal(t, "0xfe80000000000000", snap.Nodes[0].Ports[0].SubnetPrefix)
	require.Len(t, snap.Links, 1)
	assert.Equal(t, "0x0011750102000001", snap.Links[0].B.GUID)

	require.NotNil(t, snap.Declared)
	assert.Nil(t, snap.Declared.Hosts)
	require.NotNil(t, snap.Declared.Links)
	assert.Equal(t, 1, *snap.Declared.Links)
}

func TestYAMLParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "unknown field",
			input:   "nodes:\n  - guid: x\n    colour: blue\n",
			wantErr: "colour",
		},
		{
			name:    "missing node guid",
			input:   "nodes:\n  - description: orphan\n",
			wantErr: "GUID: field is required",
		},
		{
			name:    "missing link endpoint",
			input:   "links:\n  - a: {guid: x, port: \"1\"}\n",
			wantErr: "GUID: field is required",
		},
		{
			name:    "negative type code",
			input:   "nodes:\n  - guid: x\n    type_code: -1\n",
			wantErr: "must be at least 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLCodec().Parse(strings.NewReader(tt.input))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestStructuredExport(t *testing.T) {
	var jsonBuf, yamlBuf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(sampleTopology(), "fe80:0000:0000:0000", &jsonBuf))
	require.NoError(t, NewYAMLCodec().Export(sampleTopology(), "fe80:0000:0000:0000", &yamlBuf))

	var fromJSON, fromYAML subnetDocument
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &fromJSON))
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML))
	assert.Equal(t, fromJSON, fromYAML)

	doc := fromJSON
	assert.Equal(t, "omnipath", doc.Label)
	assert.Equal(t, "fe80:0000:0000:0000", doc.Subnet)
	assert.Len(t, doc.Nodes, 3)
	assert.Equal(t, "switch", doc.Nodes[1].Type)
	assert.Equal(t, 48, doc.Nodes[1].Capacity)

	require.Len(t, doc.Adjacency, 4)
	last := doc.Adjacency[3]
	assert.Equal(t, "0011:7501:0100:0002", last.Src)
	assert.Equal(t, 200, last.Speed)
	assert.Equal(t, 2, last.NumParallel)
	assert.Equal(t, []int{2, 4}, []int{last.Links[0].ID, last.Links[1].ID})
	assert.Equal(t, []string{"compute-node", "login"}, doc.Partitions)
}

func TestImporterAndExporterLookup(t *testing.T) {
	for _, format := range []string{FormatSnapshotXML, FormatTopologyXML, FormatYAML} {
		imp, err := NewImporter(format)
		require.NoError(t, err)
		assert.Equal(t, format, imp.Format())
	}
	for _, format := range []string{FormatNetloc, FormatJSON, FormatYAML} {
		exp, err := NewExporter(format)
		require.NoError(t, err)
		assert.Equal(t, format, exp.Format())
	}

	_, err := NewImporter(FormatNetloc)
	assert.Error(t, err)
	_, err = NewExporter("graphml")
	assert.Error(t, err)
}
