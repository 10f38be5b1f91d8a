package service

import (
	"fmt"

	"github.com/charmbracelet/log"

	"fabtopo/internal/domain"
)

// LinkGrapher converts physical link records into paired directed links and
// files them into the adjacency of the owning subnet. One grapher owns one
// id sequence; ids stay unique across every subnet it graphs.
type LinkGrapher struct {
	seq    domain.LinkSequence
	gbits  int
	logger *log.Logger
}

// NewLinkGrapher creates a grapher stamping every link with gbits
func NewLinkGrapher(gbits int, logger *log.Logger) *LinkGrapher {
	if gbits <= 0 {
		gbits = domain.DefaultGbits
	}
	return &LinkGrapher{gbits: gbits, logger: orDiscard(logger)}
}

// Graph processes links in input order. Links whose subnet cannot be
// resolved are skipped with a diagnostic and consume no ids.
func (g *LinkGrapher) Graph(inv *Inventory, links []domain.LinkRecord) (domain.Diagnostics, error) {
	var diags domain.Diagnostics

	for i, rec := range links {
		a, err := endpoint(rec.A)
		if err != nil {
			return diags, fmt.Errorf("link %d: endpoint A: %w", i, err)
		}
		b, err := endpoint(rec.B)
		if err != nil {
			return diags, fmt.Errorf("link %d: endpoint B: %w", i, err)
		}

		info, ok := g.resolve(inv, rec, a, b)
		if !ok {
			diags = append(diags, domain.Diagnostic{
				Kind:    domain.DiagUnresolvedLink,
				LinkID:  linkLabel(i, rec, a, b),
				NodeIDs: []string{a.NodeID, b.NodeID},
			})
			continue
		}

		subnet := inv.Topology.EnsureSubnet(info.Subnet)
		g.add(subnet.Links, domain.PhysicalLink{
			A:     a,
			B:     b,
			Width: info.Width,
			Speed: info.Speed,
			Gbits: g.gbits,
		})
	}

	g.logger.Info("links graphed", "physical", g.seq.Count(), "skipped", len(diags))
	return diags, nil
}

// add records both directions of one physical link and advances the sequence
func (g *LinkGrapher) add(adj *domain.Adjacency, link domain.PhysicalLink) [2]domain.DirectedLink {
	dirs := g.seq.Directions(link)
	for _, d := range dirs {
		adj.Append(d)
		g.logger.Debug("directed link", "id", d.ID, "other", d.OtherID, "src", d.Src, "dst", d.Dst)
	}
	g.seq.Advance()
	return dirs
}

// Count returns the number of physical links graphed so far
func (g *LinkGrapher) Count() int {
	return g.seq.Count()
}

// resolve finds the port that places a link in a subnet: endpoint A's port,
// then endpoint B's, then the port sharing the link's id
func (g *LinkGrapher) resolve(inv *Inventory, rec domain.LinkRecord, a, b domain.Endpoint) (portInfo, bool) {
	if info, ok := inv.endpointPort(a.NodeID, a.Port); ok {
		return info, true
	}
	if info, ok := inv.endpointPort(b.NodeID, b.Port); ok {
		return info, true
	}
	if info, ok := inv.portByID(rec.ID); ok {
		return info, true
	}
	if inv.implicit != "" {
		return portInfo{Subnet: inv.implicit}, true
	}
	return portInfo{}, false
}

func endpoint(rec domain.EndpointRecord) (domain.Endpoint, error) {
	id, err := domain.CanonicalID(rec.GUID)
	if err != nil {
		return domain.Endpoint{}, err
	}
	return domain.Endpoint{NodeID: id, Port: rec.Port}, nil
}

func linkLabel(i int, rec domain.LinkRecord, a, b domain.Endpoint) string {
	if rec.ID != "" {
		return rec.ID
	}
	return fmt.Sprintf("#%d (%s-%s)", i, a, b)
}
