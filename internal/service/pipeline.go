package service

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"fabtopo/internal/domain"
)

// Options configures a conversion
type Options struct {
	// Label is written as the subnet label line of each output file
	Label string
	// ImplicitSubnet, when set, places every node and link in one subnet
	// with this key instead of partitioning by subnet prefix
	ImplicitSubnet string
	// Gbits is the nominal bandwidth rating stamped on every link
	Gbits int
}

// Result is a converted topology together with every diagnostic raised
type Result struct {
	RunID       string
	StartedAt   time.Time
	Topology    *domain.Topology
	Diagnostics domain.Diagnostics
	Links       int
}

// Pipeline runs the inventory -> links -> consistency stages over one snapshot
type Pipeline struct {
	opts     Options
	logger   *log.Logger
	eventBus *EventBus
	checker  ConsistencyChecker
}

// NewPipeline creates a pipeline. A nil logger discards output and a nil
// event bus drops events.
func NewPipeline(opts Options, logger *log.Logger, eventBus *EventBus) *Pipeline {
	if opts.Gbits <= 0 {
		opts.Gbits = domain.DefaultGbits
	}
	return &Pipeline{
		opts:     opts,
		logger:   orDiscard(logger),
		eventBus: eventBus,
	}
}

// Run converts a snapshot. Each run is a full rebuild with its own link id
// sequence. Only malformed identifiers return an error; everything else is
// reported through Result.Diagnostics.
func (p *Pipeline) Run(snap *domain.Snapshot) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	p.logger.Info("conversion started", "run", res.RunID,
		"nodes", len(snap.Nodes), "links", len(snap.Links))

	res.Diagnostics = append(res.Diagnostics, p.checker.CheckCounts(snap)...)

	builder := NewInventoryBuilder(p.opts.Label, p.opts.ImplicitSubnet, p.logger)
	inv, err := builder.Build(snap.Nodes)
	if err != nil {
		return nil, fmt.Errorf("build inventory: %w", err)
	}
	res.Topology = inv.Topology

	grapher := NewLinkGrapher(p.opts.Gbits, p.logger)
	diags, err := grapher.Graph(inv, snap.Links)
	if err != nil {
		return nil, fmt.Errorf("graph links: %w", err)
	}
	res.Diagnostics = append(res.Diagnostics, diags...)
	res.Links = grapher.Count()

	res.Diagnostics = append(res.Diagnostics, p.checker.Check(res.Topology)...)

	for _, subnet := range res.Topology.Subnets() {
		p.eventBus.Publish(Event{
			Type: EventSubnetBuilt,
			Payload: SubnetStats{
				Subnet:        subnet.ID,
				Nodes:         subnet.Nodes.Len(),
				Adjacencies:   subnet.Links.Len(),
				DirectedLinks: subnet.Links.LinkCount(),
			},
		})
	}

	for _, d := range res.Diagnostics {
		p.logger.Warn(d.String(), "kind", d.Kind, "subnet", d.Subnet)
		p.eventBus.Publish(Event{Type: EventDiagnostic, Payload: d})
	}

	p.eventBus.Publish(Event{
		Type: EventRunCompleted,
		Payload: RunSummary{
			RunID:         res.RunID,
			Subnets:       len(res.Topology.SubnetIDs()),
			PhysicalLinks: res.Links,
			Diagnostics:   len(res.Diagnostics),
		},
	})
	p.logger.Info("conversion finished", "run", res.RunID,
		"subnets", len(res.Topology.SubnetIDs()),
		"links", res.Links,
		"diagnostics", len(res.Diagnostics))

	return res, nil
}
