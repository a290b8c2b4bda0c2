package core

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/oqtopus-team/cliffordt-optimizer/gate"
)

var systemComponents *SystemComponents

// ResultChan carries a finished SectionResult from the pipeline to the
// section store's background drain goroutine.
type ResultChan chan *SectionResult

// Channels holds the process's inter-component channels. When a second
// channel is needed it is added here, following the teacher's one-struct-
// per-process convention rather than threading extra params through Setup.
type Channels struct {
	ResultChan
}

// NewChannels allocates a fresh Channels with an unbuffered ResultChan.
func NewChannels() *Channels {
	return &Channels{ResultChan: make(ResultChan)}
}

// Close shuts down every channel in c.
func (c *Channels) Close() {
	close(c.ResultChan)
}

// Pipeline accepts circuit sections and runs them through the optimizer on
// a bounded worker pool. Implemented by scheduler.Pipeline.
type Pipeline interface {
	Setup(ResultChan, *Conf) error
	Start() error
	HandleSection(*gate.Circuit)
	GetCurrentQueueSize() int
	IsOverRefillThreshold() bool
}

// SystemComponents wires the process's DI container to its channels and
// orchestrates every component's Setup/TearDown in a fixed order.
type SystemComponents struct {
	*dig.Container
	*Channels
}

// NewSystemComponents wraps con with a fresh Channels.
func NewSystemComponents(con *dig.Container) *SystemComponents {
	return &SystemComponents{con, NewChannels()}
}

// GetSystemComponents returns the process-wide SystemComponents set up by
// the most recent call to Setup.
func GetSystemComponents() *SystemComponents {
	return systemComponents
}

// Setup resolves and initializes SectionStore and Pipeline from the
// container, in that order — the store must be ready before the pipeline
// can hand it results.
func (s *SystemComponents) Setup(conf *Conf) error {
	resultChan := s.ResultChan

	zap.L().Debug("setting up section store")
	if err := s.Invoke(func(st SectionStore) error {
		return st.Setup(resultChan, conf)
	}); err != nil {
		return err
	}

	zap.L().Debug("setting up pipeline")
	if err := s.Invoke(func(p Pipeline) error {
		return p.Setup(resultChan, conf)
	}); err != nil {
		return err
	}

	systemComponents = s
	return nil
}

// TearDown releases channel resources. Components here have no external
// connections to close, unlike the teacher's transpiler/SSE router, so
// this only needs to close the channels.
func (s *SystemComponents) TearDown() {
	s.Channels.Close()
}

// StartContainer starts the resolved Pipeline's dispatch loop.
func (s *SystemComponents) StartContainer() error {
	return s.Container.Invoke(func(p Pipeline) error {
		return p.Start()
	})
}

// GetCurrentQueueSize reports the resolved Pipeline's current queue depth.
func (s *SystemComponents) GetCurrentQueueSize() int {
	var size int
	_ = s.Invoke(func(p Pipeline) {
		size = p.GetCurrentQueueSize()
	})
	return size
}

// IsQueueOverRefillThreshold reports whether the resolved Pipeline's queue
// has crossed its configured refill threshold.
func (s *SystemComponents) IsQueueOverRefillThreshold() bool {
	var over bool
	_ = s.Invoke(func(p Pipeline) {
		over = p.IsOverRefillThreshold()
	})
	return over
}
