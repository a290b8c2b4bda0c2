// Package scheduler queues circuit sections and runs them through the
// optimizer on a bounded worker pool. Grounded on scheduler/scheduler.go's
// NormalScheduler, generalized from job-status dispatch to a plain
// optimize-and-publish pipeline.
package scheduler

import (
	"fmt"
	"time"

	"github.com/oklog/run"
	"go.uber.org/zap"

	"github.com/oqtopus-team/cliffordt-optimizer/core"
	"github.com/oqtopus-team/cliffordt-optimizer/gate"
	"github.com/oqtopus-team/cliffordt-optimizer/optimizer"
)

// Pipeline dequeues circuit sections and runs each through the fixed-point
// optimizer loop and measurement absorption on a fixed-size worker pool,
// publishing each result to the section store's result channel.
type Pipeline struct {
	queue       *SectionQueue
	resultChan  core.ResultChan
	workerCount int
	timeBudget  time.Duration
	absorb      bool
	emitLayers  bool
	group       run.Group
	cancel      chan struct{}
}

// Setup configures the queue and worker pool from conf, and wires
// resultChan as the destination for every finished SectionResult.
func (p *Pipeline) Setup(resultChan core.ResultChan, conf *core.Conf) error {
	p.queue = &SectionQueue{}
	if err := p.queue.Setup(conf); err != nil {
		return err
	}
	p.workerCount = conf.WorkerPoolSize
	if p.workerCount < 1 {
		p.workerCount = 1
	}
	p.timeBudget = time.Duration(conf.TimeBudgetSeconds) * time.Second
	p.absorb = conf.AbsorbIntoMeasurements
	p.emitLayers = conf.EmitLayers
	p.resultChan = resultChan
	p.cancel = make(chan struct{})
	return nil
}

// Start launches the worker pool. Each worker blocks dequeuing the next
// section, runs it through the optimizer, and publishes the result.
// Grounded on NormalScheduler.Start's dequeue-process loop, replacing its
// single goroutine with workerCount of them joined via oklog/run.
func (p *Pipeline) Start() error {
	for i := 0; i < p.workerCount; i++ {
		p.group.Add(p.runWorker, func(error) { /* runWorker exits on its own cancel check */ })
	}
	go func() {
		if err := p.group.Run(); err != nil {
			zap.L().Debug(fmt.Sprintf("pipeline worker pool stopped: %s", err))
		}
	}()
	return nil
}

// Stop signals every worker goroutine to exit. A worker checks the signal
// only before each dequeue, so a worker already blocked waiting for the
// next section stays blocked until one arrives, processes it, and then
// exits.
func (p *Pipeline) Stop() {
	close(p.cancel)
}

func (p *Pipeline) runWorker() error {
	for {
		select {
		case <-p.cancel:
			return fmt.Errorf("pipeline stopped")
		default:
		}

		sj, err := p.queue.Dequeue(true)
		if err != nil {
			zap.L().Debug("no section in queue", zap.Error(err))
			continue
		}
		p.process(sj.circuit)
		close(sj.finished)
	}
}

func (p *Pipeline) process(circuit *gate.Circuit) {
	zap.L().Debug(fmt.Sprintf("optimizing section %s", circuit.ID))
	numTGates := optimizer.Optimize(circuit, p.timeBudget)
	if p.absorb {
		optimizer.AbsorbMeasurements(circuit, numTGates)
	}
	zap.L().Debug(fmt.Sprintf("finished optimizing section %s, t-count=%d", circuit.ID, circuit.TCount()))

	if p.resultChan == nil {
		return
	}
	result := core.NewSectionResult(circuit)
	if p.emitLayers {
		result.Layers = core.LayersToDTO(optimizer.PartitionLayers(circuit.Operations))
	}
	p.resultChan <- result
}

// HandleSection enqueues circuit and blocks until a worker has optimized
// it, mirroring NormalScheduler.handleImpl's synchronous wait-for-result
// shape but without the multi-stage job lifecycle this domain has no use
// for.
func (p *Pipeline) HandleSection(circuit *gate.Circuit) {
	sj := &sectionJob{circuit: circuit, finished: make(chan struct{})}
	if err := p.queue.Enqueue(sj); err != nil {
		zap.L().Error(fmt.Sprintf("failed to enqueue section %s: %s", circuit.ID, err))
		return
	}
	<-sj.finished
}

// GetCurrentQueueSize implements core.Pipeline.
func (p *Pipeline) GetCurrentQueueSize() int {
	return p.queue.GetCurrentSize()
}

// IsOverRefillThreshold implements core.Pipeline.
func (p *Pipeline) IsOverRefillThreshold() bool {
	return p.queue.IsOverRefillThreshold()
}
