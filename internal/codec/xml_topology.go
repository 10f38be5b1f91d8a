package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"fabtopo/internal/domain"
)

// switchTypeCode is the inventory type code given to switches read from a
// topology report, which lists hosts and switches in separate sections
const switchTypeCode = 2

// TopologyXMLCodec reads link summaries (opareport -o topology). These
// reports describe a single subnet and declare their host, switch and link
// totals, which are carried along for the count check.
type TopologyXMLCodec struct{}

// NewTopologyXMLCodec creates a new topology XML codec
func NewTopologyXMLCodec() *TopologyXMLCodec {
	return &TopologyXMLCodec{}
}

// Format returns the codec format identifier
func (c *TopologyXMLCodec) Format() string {
	return FormatTopologyXML
}

type xmlTopology struct {
	FIs struct {
		Count *int              `xml:"ConnectedFICount"`
		Nodes []xmlTopologyNode `xml:"Node"`
	} `xml:"Nodes>FIs"`
	Switches struct {
		Count *int              `xml:"ConnectedSwitchCount"`
		Nodes []xmlTopologyNode `xml:"Node"`
	} `xml:"Nodes>Switches"`
	LinkCount *int              `xml:"LinkSummary>LinkCount"`
	Links     []xmlTopologyLink `xml:"LinkSummary>Link"`
}

type xmlTopologyNode struct {
	GUID  string `xml:"NodeGUID"`
	Desc  string `xml:"NodeDesc"`
	Ports []struct {
		Num string `xml:"PortNum"`
	} `xml:"Port"`
}

type xmlTopologyLink struct {
	Ports []xmlEndpoint `xml:"Port"`
}

// Parse decodes a topology report. Hosts get a single port, switches one
// port per listed Port element.
func (c *TopologyXMLCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var doc xmlTopology
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse topology XML: %w", err)
	}

	snap := &domain.Snapshot{
		Nodes: make([]domain.NodeRecord, 0, len(doc.FIs.Nodes)+len(doc.Switches.Nodes)),
		Links: make([]domain.LinkRecord, 0, len(doc.Links)),
		Declared: &domain.DeclaredCounts{
			Hosts:    doc.FIs.Count,
			Switches: doc.Switches.Count,
			Links:    doc.LinkCount,
		},
	}

	for _, n := range doc.FIs.Nodes {
		snap.Nodes = append(snap.Nodes, domain.NodeRecord{
			GUID:        strings.TrimSpace(n.GUID),
			Description: strings.TrimSpace(n.Desc),
			TypeCode:    domain.HostTypeCode,
			Ports:       []domain.PortRecord{{}},
		})
	}

	for _, n := range doc.Switches.Nodes {
		rec := domain.NodeRecord{
			GUID:        strings.TrimSpace(n.GUID),
			Description: strings.TrimSpace(n.Desc),
			TypeCode:    switchTypeCode,
			Ports:       make([]domain.PortRecord, 0, len(n.Ports)),
		}
		for _, p := range n.Ports {
			rec.Ports = append(rec.Ports, domain.PortRecord{Number: strings.TrimSpace(p.Num)})
		}
		snap.Nodes = append(snap.Nodes, rec)
	}

	for i, l := range doc.Links {
		if len(l.Ports) != 2 {
			return nil, fmt.Errorf("link %d: expected 2 ports, got %d", i, len(l.Ports))
		}
		snap.Links = append(snap.Links, domain.LinkRecord{
			A: l.Ports[0].record(),
			B: l.Ports[1].record(),
		})
	}

	if err := ValidateSnapshot(snap); err != nil {
		return nil, fmt.Errorf("invalid topology: %w", err)
	}
	return snap, nil
}
