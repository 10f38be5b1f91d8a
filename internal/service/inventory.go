package service

import (
	"fmt"

	"github.com/charmbracelet/log"

	"fabtopo/internal/domain"
)

// portInfo is what a link needs to know about one of its endpoint ports
type portInfo struct {
	Subnet string
	Width  string
	Speed  string
}

type portKey struct {
	node string
	port string
}

// Inventory is the output of the InventoryBuilder: the per-subnet node
// registries plus the port index the LinkGrapher uses to place links
type Inventory struct {
	Topology *domain.Topology

	byEndpoint map[portKey]portInfo
	byID       map[string]portInfo
	implicit   string
}

// endpointPort looks up a port by canonical node id and port number
func (inv *Inventory) endpointPort(nodeID, port string) (portInfo, bool) {
	info, ok := inv.byEndpoint[portKey{node: nodeID, port: port}]
	return info, ok
}

// portByID looks up a port by its inventory id
func (inv *Inventory) portByID(id string) (portInfo, bool) {
	if id == "" {
		return portInfo{}, false
	}
	info, ok := inv.byID[id]
	return info, ok
}

// InventoryBuilder turns decoded node records into per-subnet registries
type InventoryBuilder struct {
	label    string
	implicit string
	logger   *log.Logger
}

// NewInventoryBuilder creates a builder. When implicitSubnet is not empty
// every port is placed in that subnet and subnet prefixes are ignored.
func NewInventoryBuilder(label, implicitSubnet string, logger *log.Logger) *InventoryBuilder {
	return &InventoryBuilder{
		label:    label,
		implicit: implicitSubnet,
		logger:   orDiscard(logger),
	}
}

// Build registers every node into each subnet it has a port in. A node
// without ports ends up in no registry. Malformed GUIDs or subnet prefixes
// abort the build.
func (b *InventoryBuilder) Build(records []domain.NodeRecord) (*Inventory, error) {
	inv := &Inventory{
		Topology:   domain.NewTopology(b.label),
		byEndpoint: make(map[portKey]portInfo),
		byID:       make(map[string]portInfo),
		implicit:   b.implicit,
	}

	for i, rec := range records {
		id, err := domain.CanonicalID(rec.GUID)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}

		node := domain.NewNode(id, rec.Description, rec.TypeCode, len(rec.Ports))
		for _, p := range node.Partitions {
			inv.Topology.AddPartition(p)
		}

		for _, port := range rec.Ports {
			subnetID, err := b.subnetOf(port)
			if err != nil {
				return nil, fmt.Errorf("node %s port %q: %w", id, port.ID, err)
			}

			subnet := inv.Topology.EnsureSubnet(subnetID)
			if subnet.Nodes.Add(node) {
				b.logger.Debug("registered node", "subnet", subnetID, "node", id, "type", node.Type)
			}

			info := portInfo{Subnet: subnetID, Width: port.LinkWidth, Speed: port.LinkSpeed}
			if port.Number != "" {
				inv.byEndpoint[portKey{node: id, port: port.Number}] = info
			}
			if port.ID != "" {
				inv.byID[port.ID] = info
			}
		}
	}

	for _, subnet := range inv.Topology.Subnets() {
		b.logger.Info("subnet inventory", "subnet", subnet.ID, "nodes", subnet.Nodes.Len())
	}

	return inv, nil
}

func (b *InventoryBuilder) subnetOf(port domain.PortRecord) (string, error) {
	if b.implicit != "" {
		return b.implicit, nil
	}
	return domain.CanonicalID(port.SubnetPrefix)
}
