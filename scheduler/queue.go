package scheduler

import (
	"fmt"

	conq "github.com/enriquebris/goconcurrentqueue"
	"go.uber.org/zap"

	"github.com/oqtopus-team/cliffordt-optimizer/core"
	"github.com/oqtopus-team/cliffordt-optimizer/gate"
)

// sectionJob pairs a circuit section awaiting optimization with a channel
// the submitter blocks on until the worker pool finishes it and closes it.
type sectionJob struct {
	circuit  *gate.Circuit
	finished chan struct{}
}

type fifo interface {
	Enqueue(*sectionJob) error
	Dequeue() (*sectionJob, error)
	DequeueOrWaitForNextElement() (*sectionJob, error)
	GetLen() int
}

// conqFIFO adapts goconcurrentqueue's interface{}-typed FIFO to sectionJob,
// grounded on scheduler/queue.go's conqFIFO wrapper (there typed to
// *jobInScheduler).
type conqFIFO struct {
	conq.FIFO
}

func newConqFIFO() *conqFIFO {
	return &conqFIFO{FIFO: *conq.NewFIFO()}
}

func (c *conqFIFO) Enqueue(sj *sectionJob) error {
	return c.FIFO.Enqueue(sj)
}

func (c *conqFIFO) Dequeue() (*sectionJob, error) {
	tmp, err := c.FIFO.Dequeue()
	if err != nil {
		return nil, err
	}
	return tmp.(*sectionJob), nil
}

func (c *conqFIFO) DequeueOrWaitForNextElement() (*sectionJob, error) {
	tmp, err := c.FIFO.DequeueOrWaitForNextElement()
	if err != nil {
		return nil, err
	}
	return tmp.(*sectionJob), nil
}

func (c *conqFIFO) GetLen() int {
	return c.FIFO.GetLen()
}

// SectionQueue is a bounded FIFO of circuit sections awaiting optimization.
// Grounded on scheduler/queue.go's NormalQueue, generalized from a
// job-status-tracking queue to a plain work queue since this domain has no
// job lifecycle to track.
type SectionQueue struct {
	fifo            fifo
	maxSize         int
	refillThreshold int
}

// Setup configures the queue's capacity and refill threshold from conf.
func (q *SectionQueue) Setup(conf *core.Conf) error {
	q.maxSize = conf.QueueMaxSize
	q.refillThreshold = conf.QueueRefillThreshold
	q.fifo = newConqFIFO()
	return nil
}

// Enqueue adds sj unless the queue is already at capacity.
func (q *SectionQueue) Enqueue(sj *sectionJob) error {
	if q.fifo.GetLen() >= q.maxSize {
		err := fmt.Errorf("section queue is full (max %d)", q.maxSize)
		zap.L().Info(err.Error())
		return err
	}
	return q.fifo.Enqueue(sj)
}

// Dequeue removes and returns the oldest section job, blocking for the next
// arrival if wait is true.
func (q *SectionQueue) Dequeue(wait bool) (*sectionJob, error) {
	if wait {
		return q.fifo.DequeueOrWaitForNextElement()
	}
	return q.fifo.Dequeue()
}

// GetCurrentSize returns the number of section jobs currently queued.
func (q *SectionQueue) GetCurrentSize() int {
	return q.fifo.GetLen()
}

// IsOverRefillThreshold reports whether the queue has crossed its
// configured refill threshold.
func (q *SectionQueue) IsOverRefillThreshold() bool {
	return q.fifo.GetLen() >= q.refillThreshold
}
