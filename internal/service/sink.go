package service

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/blake2b"

	"fabtopo/internal/codec"
	"fabtopo/internal/domain"
)

// FileSink writes one topology file per subnet into a directory
type FileSink struct {
	dir      string
	prefix   string
	single   bool
	exporter codec.Exporter
	logger   *log.Logger
	eventBus *EventBus
}

// NewFileSink creates a sink. Files are named <prefix>-<subnet>-nodes<ext>,
// or <label>-nodes<ext> when single is set and the run has one implicit subnet.
func NewFileSink(dir, prefix string, single bool, exporter codec.Exporter, logger *log.Logger, eventBus *EventBus) *FileSink {
	return &FileSink{
		dir:      dir,
		prefix:   prefix,
		single:   single,
		exporter: exporter,
		logger:   orDiscard(logger),
		eventBus: eventBus,
	}
}

// FileName returns the output file name for one subnet
func (s *FileSink) FileName(topo *domain.Topology, subnetID string) string {
	if s.single {
		return fmt.Sprintf("%s-nodes%s", topo.Label, s.exporter.Extension())
	}
	return fmt.Sprintf("%s-%s-nodes%s", s.prefix, subnetID, s.exporter.Extension())
}

// Write renders every subnet of the result and returns what was written
func (s *FileSink) Write(res *Result) ([]domain.OutputFile, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	files := make([]domain.OutputFile, 0, len(res.Topology.SubnetIDs()))
	for _, subnetID := range res.Topology.SubnetIDs() {
		path := filepath.Join(s.dir, s.FileName(res.Topology, subnetID))
		out, err := s.writeFile(path, res.Topology, subnetID)
		if err != nil {
			return files, err
		}
		files = append(files, out)

		s.logger.Info("wrote topology", "subnet", subnetID, "path", path,
			"bytes", out.Bytes, "blake2b", out.Digest)
		s.eventBus.Publish(Event{Type: EventSubnetWritten, Payload: out})
	}

	return files, nil
}

func (s *FileSink) writeFile(path string, topo *domain.Topology, subnetID string) (domain.OutputFile, error) {
	out := domain.OutputFile{Subnet: subnetID, Path: path}

	f, err := os.Create(path)
	if err != nil {
		return out, fmt.Errorf("create %s: %w", path, err)
	}

	digest, err := blake2b.New256(nil)
	if err != nil {
		f.Close()
		return out, fmt.Errorf("init digest: %w", err)
	}

	counter := &countingWriter{}
	if err := s.exporter.Export(topo, subnetID, io.MultiWriter(f, digest, counter)); err != nil {
		f.Close()
		return out, fmt.Errorf("export subnet %s: %w", subnetID, err)
	}
	if err := f.Close(); err != nil {
		return out, fmt.Errorf("close %s: %w", path, err)
	}

	out.Digest = hex.EncodeToString(digest.Sum(nil))
	out.Bytes = counter.n
	return out, nil
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
