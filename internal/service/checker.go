package service

import (
	"fabtopo/internal/domain"
)

// ConsistencyChecker cross-validates a built topology. It only observes;
// nothing it finds changes the data model.
type ConsistencyChecker struct{}

// CheckCounts compares a report's declared totals with the records found
func (ConsistencyChecker) CheckCounts(snap *domain.Snapshot) domain.Diagnostics {
	if snap.Declared == nil {
		return nil
	}

	hosts, switches, links := snap.ObservedCounts()
	var diags domain.Diagnostics
	for _, c := range []struct {
		entity   string
		declared *int
		observed int
	}{
		{"hosts", snap.Declared.Hosts, hosts},
		{"switches", snap.Declared.Switches, switches},
		{"links", snap.Declared.Links, links},
	} {
		if c.declared == nil || *c.declared == c.observed {
			continue
		}
		diags = append(diags, domain.Diagnostic{
			Kind:     domain.DiagCountMismatch,
			Entity:   c.entity,
			Expected: *c.declared,
			Observed: c.observed,
		})
	}
	return diags
}

// CheckSubnet reports link endpoints missing from the registry and
// registered nodes without outgoing links
func (ConsistencyChecker) CheckSubnet(subnet *domain.Subnet) domain.Diagnostics {
	var diags domain.Diagnostics

	seen := make(map[string]bool)
	for _, entry := range subnet.Links.AllEntries() {
		for _, id := range []string{entry.Src, entry.Dst} {
			if seen[id] || subnet.Nodes.Has(id) {
				continue
			}
			seen[id] = true
			diags = append(diags, domain.Diagnostic{
				Kind:    domain.DiagDanglingLink,
				Subnet:  subnet.ID,
				NodeIDs: []string{id},
			})
		}
	}

	var orphans []string
	for _, id := range subnet.Nodes.IDs() {
		if !subnet.Links.HasSource(id) {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) > 0 {
		diags = append(diags, domain.Diagnostic{
			Kind:    domain.DiagOrphanNode,
			Subnet:  subnet.ID,
			NodeIDs: orphans,
		})
	}

	return diags
}

// Check runs CheckSubnet over every subnet in discovery order
func (c ConsistencyChecker) Check(topo *domain.Topology) domain.Diagnostics {
	var diags domain.Diagnostics
	for _, subnet := range topo.Subnets() {
		diags = append(diags, c.CheckSubnet(subnet)...)
	}
	return diags
}
