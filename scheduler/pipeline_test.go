//go:build unit
// +build unit

package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqtopus-team/cliffordt-optimizer/core"
	"github.com/oqtopus-team/cliffordt-optimizer/gate"
	"github.com/oqtopus-team/cliffordt-optimizer/pauli"
)

func newTestPipeline(t *testing.T, confOverrides ...func(*core.Conf)) (*Pipeline, core.ResultChan) {
	t.Helper()
	p := &Pipeline{}
	resultChan := make(core.ResultChan, 1)
	conf := &core.Conf{QueueMaxSize: 10, QueueRefillThreshold: 5, WorkerPoolSize: 1, AbsorbIntoMeasurements: true}
	for _, override := range confOverrides {
		override(conf)
	}
	require.NoError(t, p.Setup(resultChan, conf))
	require.NoError(t, p.Start())
	return p, resultChan
}

func TestPipelineOptimizesAndPublishesResult(t *testing.T) {
	p, resultChan := newTestPipeline(t)
	defer p.Stop()

	c, err := gate.NewCircuit(1, 1)
	require.NoError(t, err)
	basisX, err := pauli.NewFromBasis([]byte{'x'}, []int{0}, 1)
	require.NoError(t, err)
	require.NoError(t, c.AppendRotation(basisX, 1))
	require.NoError(t, c.AppendRotation(basisX, -1))

	p.HandleSection(c)

	select {
	case result := <-resultChan:
		assert.Equal(t, 0, result.TCount)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for section result")
	}
}

func TestPipelineReportsQueueDepth(t *testing.T) {
	p, _ := newTestPipeline(t)
	defer p.Stop()
	assert.Equal(t, 0, p.GetCurrentQueueSize())
	assert.False(t, p.IsOverRefillThreshold())
}

// newAncillaCliffordCircuit builds a 1 data / 1 ancilla circuit where the
// lone ancilla rotation is a Clifford fully covered by the measurement that
// follows it, so an absorption pass deletes it outright.
func newAncillaCliffordCircuit(t *testing.T) *gate.Circuit {
	t.Helper()
	c, err := gate.NewCircuit(2, 1)
	require.NoError(t, err)
	ancillaRotation, err := pauli.NewFromBasis([]byte{'z'}, []int{1}, 2)
	require.NoError(t, err)
	require.NoError(t, c.AppendRotation(ancillaRotation, 2))
	c.AppendMeasurement(ancillaRotation, true)
	return c
}

func TestPipelineAbsorbsByDefault(t *testing.T) {
	p, resultChan := newTestPipeline(t)
	defer p.Stop()

	c := newAncillaCliffordCircuit(t)
	p.HandleSection(c)

	<-resultChan
	assert.Len(t, c.Operations, 1, "the fully-measured ancilla rotation must be absorbed away")
}

func TestPipelineSkipsAbsorptionWhenDisabled(t *testing.T) {
	p, resultChan := newTestPipeline(t, func(conf *core.Conf) { conf.AbsorbIntoMeasurements = false })
	defer p.Stop()

	c := newAncillaCliffordCircuit(t)
	p.HandleSection(c)

	<-resultChan
	assert.Len(t, c.Operations, 2, "absorption must not run when disabled")
}

func TestPipelineEmitsLayersWhenEnabled(t *testing.T) {
	p, resultChan := newTestPipeline(t, func(conf *core.Conf) { conf.EmitLayers = true })
	defer p.Stop()

	c := newAncillaCliffordCircuit(t)
	p.HandleSection(c)

	result := <-resultChan
	require.NotNil(t, result.Layers)
	assert.Len(t, result.Layers, len(result.Ops))
}

func TestPipelineOmitsLayersByDefault(t *testing.T) {
	p, resultChan := newTestPipeline(t)
	defer p.Stop()

	c := newAncillaCliffordCircuit(t)
	p.HandleSection(c)

	result := <-resultChan
	assert.Nil(t, result.Layers)
}
