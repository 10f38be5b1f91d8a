package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabtopo/internal/domain"
)

const snapshotXML = `<?xml version="1.0" encoding="utf-8" ?>
<Snapshot>
  <Nodes>
    <Node id="0x0011750101000001">
      <NodeGUID>0x0011750101000001</NodeGUID>
      <NodeDesc>compute-node-42 hfi1_0</NodeDesc>
      <NodeType_Int>1</NodeType_Int>
      <PortInfo id="0x0011750101000001:1">
        <PortNum>1</PortNum>
        <SubnetPrefix>0xfe80000000000000</SubnetPrefix>
        <LinkWidthActive_Int>8</LinkWidthActive_Int>
        <LinkSpeedEnabled_Int>2</LinkSpeedEnabled_Int>
      </PortInfo>
    </Node>
    <Node id="0x0011750102000001">
      <NodeGUID>0x0011750102000001</NodeGUID>
      <NodeDesc>edge01</NodeDesc>
      <NodeType_Int>2</NodeType_Int>
      <PortInfo id="0x0011750102000001:1">
        <PortNum>1</PortNum>
        <SubnetPrefix>0xfe80000000000000</SubnetPrefix>
        <LinkWidthActive_Int>8</LinkWidthActive_Int>
        <LinkSpeedEnabled_Int>2</LinkSpeedEnabled_Int>
      </PortInfo>
      <PortInfo id="0x0011750102000001:2">
        <PortNum>2</PortNum>
        <SubnetPrefix>0xfe80000000000000</SubnetPrefix>
        <LinkWidthActive_Int>8</LinkWidthActive_Int>
        <LinkSpeedEnabled_Int>2</LinkSpeedEnabled_Int>
      </PortInfo>
    </Node>
  </Nodes>
  <Links>
    <Link id="0x0011750101000001:1">
      <From>
        <NodeGUID>0x0011750101000001</NodeGUID>
        <PortNum>1</PortNum>
      </From>
      <To>
        <NodeGUID>0x0011750102000001</NodeGUID>
        <PortNum>1</PortNum>
      </To>
    </Link>
  </Links>
</Snapshot>`

const topologyXML = `<?xml version="1.0" encoding="utf-8" ?>
<Report>
  <Nodes>
    <FIs>
      <ConnectedFICount>2</ConnectedFICount>
      <Node>
        <NodeGUID>0x0011750101000001</NodeGUID>
        <NodeDesc>compute-node-42 hfi1_0</NodeDesc>
      </Node>
    </FIs>
    <Switches>
      <ConnectedSwitchCount> 1 </ConnectedSwitchCount>
      <Node>
        <NodeGUID>0x0011750102000001</NodeGUID>
        <NodeDesc>edge01</NodeDesc>
        <Port><PortNum>0</PortNum></Port>
        <Port><PortNum>1</PortNum></Port>
        <Port><PortNum>2</PortNum></Port>
      </Node>
    </Switches>
  </Nodes>
  <LinkSummary>
    <LinkCount>1</LinkCount>
    <Link>
      <Port>
        <NodeGUID>0x0011750101000001</NodeGUID>
        <PortNum>1</PortNum>
        <NodeType>FI</NodeType>
      </Port>
      <Port>
        <NodeGUID>0x0011750102000001</NodeGUID>
        <PortNum>1</PortNum>
        <NodeType>SW</NodeType>
      </Port>
    </Link>
  </LinkSummary>
</Report>`

func TestSnapshotXMLParse(t *testing.T) {
	snap, err := NewSnapshotXMLCodec().Parse(strings.NewReader(snapshotXML))
	require.NoError(t, err)

	require.Len(t, snap.Nodes, 2)
	host := snap.Nodes[0]
	assert.Equal(t, "0x0011750101000001", host.GUID)
	assert.Equal(t, "compute-node-42 hfi1_0", host.Description)
	assert.Equal(t, domain.HostTypeCode, host.TypeCode)
	require.Len(t, host.Ports, 1)
	assert.Equal(t, domain.PortRecord{
		ID:           "0x0011750101000001:1",
		Number:       "1",
		SubnetPrefix: "0xfe80000000000000",
		LinkWidth:    "8",
		LinkSpeed:    "2",
	}, host.Ports[0])
	assert.Len(t, snap.Nodes[1].Ports, 2)

	require.Len(t, snap.Links, 1)
	assert.Equal(t, "0x0011750101000001:1", snap.Links[0].ID)
	assert.Equal(t, domain.EndpointRecord{GUID: "0x0011750101000001", Port: "1"}, snap.Links[0].A)
	assert.Equal(t, domain.EndpointRecord{GUID: "0x0011750102000001", Port: "1"}, snap.Links[0].B)
	assert.Nil(t, snap.Declared)
}

func TestSnapshotXMLParseErrors(t *testing.T) {
	t.Run("bad type code", func(t *testing.T) {
		bad := strings.Replace(snapshotXML, "<NodeType_Int>2</NodeType_Int>", "<NodeType_Int>switch</NodeType_Int>", 1)
		_, err := NewSnapshotXMLCodec().Parse(strings.NewReader(bad))
		assert.ErrorContains(t, err, "NodeType_Int")
	})

	t.Run("missing guid", func(t *testing.T) {
		bad := strings.Replace(snapshotXML, "<NodeGUID>0x0011750102000001</NodeGUID>\n      <NodeDesc>", "<NodeDesc>", 1)
		_, err := NewSnapshotXMLCodec().Parse(strings.NewReader(bad))
		assert.ErrorContains(t, err, "GUID")
	})

	t.Run("truncated document", func(t *testing.T) {
		_, err := NewSnapshotXMLCodec().Parse(strings.NewReader(snapshotXML[:200]))
		assert.Error(t, err)
	})
}

func TestTopologyXMLParse(t *testing.T) {
	snap, err := NewTopologyXMLCodec().Parse(strings.NewReader(topologyXML))
	require.NoError(t, err)

	require.Len(t, snap.Nodes, 2)
	assert.Equal(t, domain.HostTypeCode, snap.Nodes[0].TypeCode)
	assert.Len(t, snap.Nodes[0].Ports, 1)
	assert.Equal(t, domain.NodeTypeSwitch, domain.NodeTypeFromCode(snap.Nodes[1].TypeCode))
	assert.Len(t, snap.Nodes[1].Ports, 3)

	require.Len(t, snap.Links, 1)
	assert.Equal(t, "0x0011750102000001", snap.Links[0].B.GUID)

	require.NotNil(t, snap.Declared)
	require.NotNil(t, snap.Declared.Hosts)
	assert.Equal(t, 2, *snap.Declared.Hosts)
	assert.Equal(t, 1, *snap.Declared.Switches)
	assert.Equal(t, 1, *snap.Declared.Links)
}

func TestTopologyXMLLinkNeedsTwoPorts(t *testing.T) {
	start := strings.Index(topologyXML, "      <Port>\n        <NodeGUID>0x0011750102000001</NodeGUID>\n        <PortNum>1</PortNum>\n        <NodeType>SW")
	end := strings.Index(topologyXML, "    </Link>")
	require.True(t, start > 0 && end > start)

	_, err := NewTopologyXMLCodec().Parse(strings.NewReader(topologyXML[:start] + topologyXML[end:]))
	assert.ErrorContains(t, err, "expected 2 ports")
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		file string
		head string
		want string
	}{
		{"yaml extension", "inventory.yml", "nodes: []", FormatYAML},
		{"snapshot", "snapshot.xml", snapshotXML, FormatSnapshotXML},
		{"topology", "topology.xml", topologyXML, FormatTopologyXML},
		{"yaml content", "inventory", "nodes:\n  - guid: x", FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.file, []byte(tt.head)))
		})
	}
}
