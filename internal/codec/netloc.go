package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fabtopo/internal/domain"
)

// FormatVersion is the version written on the first line of a topology file
const FormatVersion = 1

// NetlocCodec writes the line oriented topology format read by netloc:
//
//	1
//	<label>
//	<empty: hwloc path>
//	<node count>
//	physId,logId,type,partitions,description,hostname        (one per node)
//	src{,dst,speed,partitions,numLinks{,id,port1,port2,width,speed,gbits,desc,otherId,partitions}*}*
//	<comma separated partition names>
//
// Per-edge partition counts are not computed and are always written as 0.
type NetlocCodec struct{}

// NewNetlocCodec creates a new netloc codec
func NewNetlocCodec() *NetlocCodec {
	return &NetlocCodec{}
}

// Format returns the codec format identifier
func (c *NetlocCodec) Format() string {
	return FormatNetloc
}

// Extension returns the file extension of exported topologies
func (c *NetlocCodec) Extension() string {
	return ".txt"
}

// Export writes one subnet of topo to w
func (c *NetlocCodec) Export(topo *domain.Topology, subnetID string, w io.Writer) error {
	subnet, ok := topo.Subnet(subnetID)
	if !ok {
		return fmt.Errorf("unknown subnet %s", subnetID)
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d\n", FormatVersion)
	fmt.Fprintf(bw, "%s\n", topo.Label)
	bw.WriteString("\n")
	fmt.Fprintf(bw, "%d\n", subnet.Nodes.Len())

	for _, n := range subnet.Nodes.Nodes() {
		fmt.Fprintf(bw, "%s,%s,%d,%d,%s,%s\n",
			n.ID, n.ID, n.Type.Code(), 0, n.Description, n.Name)
	}

	for _, src := range subnet.Links.Sources() {
		bw.WriteString(adjacencyLine(src, subnet.Links.Entries(src)))
		bw.WriteString("\n")
	}

	bw.WriteString(strings.Join(topo.Partitions(), ","))
	bw.WriteString("\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write topology: %w", err)
	}
	return nil
}

func adjacencyLine(src string, entries []domain.AdjacencyEntry) string {
	var b strings.Builder
	b.WriteString(src)
	for _, e := range entries {
		// dst,speed,partitions,numLinks
		fmt.Fprintf(&b, ",%s,%d,%d,%d", e.Dst, e.Speed(), 0, e.NumParallel())
		for _, l := range e.Links {
			// id,port1,port2,width,speed,gbits,desc,otherId,partitions
			b.WriteString(",")
			b.WriteString(strings.Join([]string{
				strconv.Itoa(l.ID),
				l.Src.Port,
				l.Dst.Port,
				l.Width,
				l.Speed,
				strconv.Itoa(l.Gbits),
				"",
				strconv.Itoa(l.OtherID),
				"0",
			}, ","))
		}
	}
	return b.String()
}
