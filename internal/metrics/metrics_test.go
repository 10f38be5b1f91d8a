package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabtopo/internal/domain"
	"fabtopo/internal/service"
)

func TestNewRecorder(t *testing.T) {
	r := NewRecorder()
	require.NotNil(t, r)
	assert.NotNil(t, r.Nodes)
	assert.NotNil(t, r.DiagnosticsTotal)
	assert.NotNil(t, r.Gatherer())
}

func TestHandleSubnetBuilt(t *testing.T) {
	r := NewRecorder()

	r.Handle(service.Event{
		Type: service.EventSubnetBuilt,
		Payload: service.SubnetStats{
			Subnet:        "fe80:0000:0000:0000",
			Nodes:         3,
			Adjacencies:   4,
			DirectedLinks: 6,
		},
	})

	assert.Equal(t, 3.0, testutil.ToFloat64(r.Nodes.WithLabelValues("fe80:0000:0000:0000")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.Adjacencies.WithLabelValues("fe80:0000:0000:0000")))
	assert.Equal(t, 6.0, testutil.ToFloat64(r.DirectedLinks.WithLabelValues("fe80:0000:0000:0000")))
}

func TestHandleDiagnostics(t *testing.T) {
	r := NewRecorder()

	for _, kind := range []domain.DiagnosticKind{domain.DiagOrphanNode, domain.DiagOrphanNode, domain.DiagDanglingLink} {
		r.Handle(service.Event{Type: service.EventDiagnostic, Payload: domain.Diagnostic{Kind: kind}})
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(r.DiagnosticsTotal.WithLabelValues(string(domain.DiagOrphanNode))))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.DiagnosticsTotal.WithLabelValues(string(domain.DiagDanglingLink))))
}

func TestHandleWrittenAndCompleted(t *testing.T) {
	r := NewRecorder()
	r.now = func() time.Time { return time.Unix(1700000000, 0) }

	r.Handle(service.Event{
		Type:    service.EventSubnetWritten,
		Payload: domain.OutputFile{Subnet: "omnipath", Bytes: 512},
	})
	r.Handle(service.Event{Type: service.EventRunCompleted, Payload: service.RunSummary{}})

	assert.Equal(t, 512.0, testutil.ToFloat64(r.OutputBytes.WithLabelValues("omnipath")))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(r.LastRunTimestamp))
}

func TestHandleIgnoresUnexpectedPayload(t *testing.T) {
	r := NewRecorder()
	r.Handle(service.Event{Type: service.EventSubnetBuilt, Payload: "not stats"})
	assert.Equal(t, 0, testutil.CollectAndCount(r.Nodes))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Handle(service.Event{Type: service.EventDiagnostic, Payload: domain.Diagnostic{Kind: domain.DiagCountMismatch}})

	path := filepath.Join(t.TempDir(), "fabtopo.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `fabtopo_diagnostics_total{kind="count_mismatch"} 1`))
}

func TestRecorderOnEventBus(t *testing.T) {
	r := NewRecorder()
	bus := service.NewEventBus()
	bus.Subscribe(r.Handle)

	bus.Publish(service.Event{Type: service.EventDiagnostic, Payload: domain.Diagnostic{Kind: domain.DiagUnresolvedLink}})
	assert.Equal(t, 1.0, testutil.ToFloat64(r.DiagnosticsTotal.WithLabelValues(string(domain.DiagUnresolvedLink))))
}
