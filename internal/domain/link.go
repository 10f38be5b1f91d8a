package domain

import "fmt"

const (
	// DefaultGbits is the nominal bandwidth rating written for every link
	DefaultGbits = 100
	// SpeedPerLink is the aggregate speed contributed by each parallel link
	SpeedPerLink = 100
)

// Endpoint names one side of a physical link
type Endpoint struct {
	NodeID string `json:"node_id"`
	Port   string `json:"port"`
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%s", e.NodeID, e.Port)
}

// PhysicalLink is one cable between two ports, observed once in the inventory
type PhysicalLink struct {
	A     Endpoint
	B     Endpoint
	Width string
	Speed string
	Gbits int
}

// DirectedLink is one direction of a physical link. ID and OtherID are the
// pair 2k and 2k+1 assigned to the k-th physical link.
type DirectedLink struct {
	ID      int      `json:"id"`
	OtherID int      `json:"other_id"`
	Src     Endpoint `json:"src"`
	Dst     Endpoint `json:"dst"`
	Width   string   `json:"width"`
	Speed   string   `json:"speed"`
	Gbits   int      `json:"gbits"`
}

// Reverse reports whether o is the opposite direction of the same physical link
func (l DirectedLink) Reverse(o DirectedLink) bool {
	return l.OtherID == o.ID && o.OtherID == l.ID &&
		l.Src == o.Dst && l.Dst == o.Src
}

// LinkSequence hands out the pair base for each physical link. It must be
// advanced exactly once per physical link, after both directions are emitted.
type LinkSequence struct {
	k int
}

// Pair returns the ids of the current physical link's two directions
func (s *LinkSequence) Pair() (int, int) {
	return 2 * s.k, 2*s.k + 1
}

// Advance moves on to the next physical link
func (s *LinkSequence) Advance() {
	s.k++
}

// Count returns the number of physical links sequenced so far
func (s *LinkSequence) Count() int {
	return s.k
}

// Directions builds both directed records of l using the sequence's current
// pair. The first record runs A->B and carries the even id.
func (s *LinkSequence) Directions(l PhysicalLink) [2]DirectedLink {
	even, _ := s.Pair()
	ends := [2]Endpoint{l.A, l.B}

	var out [2]DirectedLink
	for first := 0; first < 2; first++ {
		out[first] = DirectedLink{
			ID:      even + first,
			OtherID: even + 1 - first,
			Src:     ends[first],
			Dst:     ends[1-first],
			Width:   l.Width,
			Speed:   l.Speed,
			Gbits:   l.Gbits,
		}
	}
	return out
}
