package service

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"fabtopo/internal/codec"
	"fabtopo/internal/domain"
)

func TestFileSinkWritesOneFilePerSubnet(t *testing.T) {
	snap := &domain.Snapshot{
		Nodes: []domain.NodeRecord{
			hostRecord(1, "cn-1", testSubnetA),
			switchRecord(2, "S1", testSubnetA, 2),
			hostRecord(3, "cn-3", testSubnetB),
		},
		Links: []domain.LinkRecord{linkRecord(1, "1", 2, "1")},
	}
	res, err := newTestPipeline().Run(snap)
	require.NoError(t, err)

	bus := NewEventBus()
	var written []domain.OutputFile
	bus.Subscribe(func(e Event) {
		if out, ok := e.Payload.(domain.OutputFile); ok {
			written = append(written, out)
		}
	})

	dir := filepath.Join(t.TempDir(), "netloc")
	sink := NewFileSink(dir, "OPA", false, codec.NewNetlocCodec(), nil, bus)

	files, err := sink.Write(res)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, files, written)

	assert.Equal(t, filepath.Join(dir, "OPA-fe80:0000:0000:0000-nodes.txt"), files[0].Path)
	assert.Equal(t, filepath.Join(dir, "OPA-fe80:0000:0000:0001-nodes.txt"), files[1].Path)

	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		require.NoError(t, err)

		var want bytes.Buffer
		require.NoError(t, codec.NewNetlocCodec().Export(res.Topology, f.Subnet, &want))
		assert.Equal(t, want.String(), string(data))

		sum := blake2b.Sum256(data)
		assert.Equal(t, hex.EncodeToString(sum[:]), f.Digest)
		assert.Equal(t, int64(len(data)), f.Bytes)
	}
}

func TestFileSinkSingleSubnetName(t *testing.T) {
	topo := domain.NewTopology("omnipath")
	topo.EnsureSubnet("omnipath")

	sink := NewFileSink(t.TempDir(), "OPA", true, codec.NewJSONCodec(), nil, nil)
	assert.Equal(t, "omnipath-nodes.json", sink.FileName(topo, "omnipath"))
}
