package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fabtopo/internal/domain"
)

// SnapshotXMLCodec reads full fabric snapshots (opareport -s -r -o snapshot).
// Each port carries the subnet prefix it belongs to, so a snapshot can span
// several subnets.
type SnapshotXMLCodec struct{}

// NewSnapshotXMLCodec creates a new snapshot XML codec
func NewSnapshotXMLCodec() *SnapshotXMLCodec {
	return &SnapshotXMLCodec{}
}

// Format returns the codec format identifier
func (c *SnapshotXMLCodec) Format() string {
	return FormatSnapshotXML
}

type xmlSnapshot struct {
	Nodes []xmlSnapshotNode `xml:"Nodes>Node"`
	Links []xmlSnapshotLink `xml:"Links>Link"`
}

type xmlSnapshotNode struct {
	GUID     string        `xml:"NodeGUID"`
	Desc     string        `xml:"NodeDesc"`
	TypeCode string        `xml:"NodeType_Int"`
	Ports    []xmlPortInfo `xml:"PortInfo"`
}

type xmlPortInfo struct {
	ID     string `xml:"id,attr"`
	Num    string `xml:"PortNum"`
	Subnet string `xml:"SubnetPrefix"`
	Width  string `xml:"LinkWidthActive_Int"`
	Speed  string `xml:"LinkSpeedEnabled_Int"`
}

type xmlSnapshotLink struct {
	ID   string      `xml:"id,attr"`
	From xmlEndpoint `xml:"From"`
	To   xmlEndpoint `xml:"To"`
}

type xmlEndpoint struct {
	GUID string `xml:"NodeGUID"`
	Port string `xml:"PortNum"`
}

// Parse decodes a snapshot report
func (c *SnapshotXMLCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var doc xmlSnapshot
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot XML: %w", err)
	}

	snap := &domain.Snapshot{
		Nodes: make([]domain.NodeRecord, 0, len(doc.Nodes)),
		Links: make([]domain.LinkRecord, 0, len(doc.Links)),
	}

	for _, n := range doc.Nodes {
		typeCode, err := strconv.Atoi(strings.TrimSpace(n.TypeCode))
		if err != nil {
			return nil, fmt.Errorf("node %s: invalid NodeType_Int %q", strings.TrimSpace(n.GUID), n.TypeCode)
		}

		rec := domain.NodeRecord{
			GUID:        strings.TrimSpace(n.GUID),
			Description: strings.TrimSpace(n.Desc),
			TypeCode:    typeCode,
			Ports:       make([]domain.PortRecord, 0, len(n.Ports)),
		}
		for _, p := range n.Ports {
			rec.Ports = append(rec.Ports, domain.PortRecord{
				ID:           strings.TrimSpace(p.ID),
				Number:       strings.TrimSpace(p.Num),
				SubnetPrefix: strings.TrimSpace(p.Subnet),
				LinkWidth:    strings.TrimSpace(p.Width),
				LinkSpeed:    strings.TrimSpace(p.Speed),
			})
		}
		snap.Nodes = append(snap.Nodes, rec)
	}

	for _, l := range doc.Links {
		snap.Links = append(snap.Links, domain.LinkRecord{
			ID: strings.TrimSpace(l.ID),
			A:  l.From.record(),
			B:  l.To.record(),
		})
	}

	if err := ValidateSnapshot(snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return snap, nil
}

func (e xmlEndpoint) record() domain.EndpointRecord {
	return domain.EndpointRecord{
		GUID: strings.TrimSpace(e.GUID),
		Port: strings.TrimSpace(e.Port),
	}
}
