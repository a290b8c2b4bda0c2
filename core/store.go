package core

import (
	"fmt"
	"sync"

	"github.com/mohae/deepcopy"
	"go.uber.org/zap"

	"github.com/oqtopus-team/cliffordt-optimizer/gate"
)

// SectionResult is the plain-exported-field wire representation of an
// optimized circuit section, safe for deepcopy.Copy and json.Marshal alike.
// It is rebuilt from gate.Circuit at cache-insert time rather than storing
// *gate.Circuit directly, since Rotation/Measurement keep their basis and
// angle fields unexported and reflection-based copying cannot cross them.
type SectionResult struct {
	ID           string
	N            int
	AncillaBegin int
	TCount       int
	Ops          []OperationDTO
	// Layers is the ordered layer partitioning of Ops, present only when
	// the pipeline was run with EmitLayers set (nil otherwise).
	Layers [][]OperationDTO `json:",omitempty"`
}

// OperationDTO is one operation in a SectionResult's wire form. Chars is a
// plain basis-character string ("xzy", one byte per entry in Qubits), not
// []byte, so it reads as a normal JSON string instead of base64 — []byte
// fields marshal to base64 under both encoding/json and jsoniter's
// compatible mode, which would make hand-written circuit fixtures opaque.
type OperationDTO struct {
	Kind   string // "rotation" or "measurement"
	Qubits []int
	Chars  string
	Angle  int  // rotation only
	Phase  bool // measurement only
}

// NewSectionResult flattens an optimized circuit into its wire form. Layers
// is left nil; set it with LayersToDTO when the pipeline was run with
// EmitLayers.
func NewSectionResult(c *gate.Circuit) *SectionResult {
	return &SectionResult{
		ID:           c.ID,
		N:            c.N,
		AncillaBegin: c.AncillaBegin,
		TCount:       c.TCount(),
		Ops:          operationsToDTO(c.Operations),
	}
}

// LayersToDTO flattens a layer partitioning (as produced by
// optimizer.PartitionLayers) into wire form for SectionResult.Layers.
func LayersToDTO(layers [][]gate.Operation) [][]OperationDTO {
	dtoLayers := make([][]OperationDTO, len(layers))
	for i, layer := range layers {
		dtoLayers[i] = operationsToDTO(layer)
	}
	return dtoLayers
}

func operationsToDTO(ops []gate.Operation) []OperationDTO {
	dtos := make([]OperationDTO, len(ops))
	for i, op := range ops {
		qubits, chars := op.Basis().Decompose()
		dto := OperationDTO{Qubits: qubits, Chars: string(chars)}
		switch v := op.(type) {
		case *gate.Rotation:
			dto.Kind = "rotation"
			dto.Angle = int(v.Angle())
		case *gate.Measurement:
			dto.Kind = "measurement"
			dto.Phase = v.Phase()
		}
		dtos[i] = dto
	}
	return dtos
}

// SectionStore caches optimized section results keyed by circuit ID, fed by
// the pipeline's result channel. The pipeline only writes to it; it does
// not look a section up before optimizing, so resubmitting a section runs
// the optimizer again.
type SectionStore interface {
	Setup(resultChan <-chan *SectionResult, conf *Conf) error
	Insert(result *SectionResult) error
	Get(id string) (*SectionResult, error)
	Delete(id string) error
}

// MemorySectionStore is a mutex-guarded in-memory SectionStore, fed
// optionally by a background channel in addition to direct Insert calls.
// Grounded on the original MemoryDB: a map behind an RWMutex, with a
// goroutine draining a results channel into Update.
type MemorySectionStore struct {
	results map[string]*SectionResult
	feed    <-chan *SectionResult
	mu      sync.RWMutex
}

// Setup wires resultChan as a background feed into the store and starts the
// drain goroutine. Safe to call with a nil channel (no background feed).
func (s *MemorySectionStore) Setup(resultChan <-chan *SectionResult, conf *Conf) error {
	s.results = make(map[string]*SectionResult)
	s.feed = resultChan
	if s.feed == nil {
		return nil
	}
	go func() {
		for {
			result := <-s.feed
			if result == nil {
				return
			}
			zap.L().Debug(fmt.Sprintf("[SectionStore] received %s", result.ID))
			if err := s.Insert(result); err != nil {
				zap.L().Error(fmt.Sprintf("failed to insert section %s: %s", result.ID, err))
			}
		}
	}()
	return nil
}

// Insert stores a deep copy of result, so later mutation of the caller's
// value never reaches the cache.
func (s *MemorySectionStore) Insert(result *SectionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ID] = deepcopy.Copy(result).(*SectionResult)
	return nil
}

// Get returns a deep copy of the stored result for id, so the caller can
// freely mutate what it gets back without corrupting the cache.
func (s *MemorySectionStore) Get(id string) (*SectionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return nil, fmt.Errorf("section not found: %s", id)
	}
	return deepcopy.Copy(result).(*SectionResult), nil
}

// Delete removes a cached result. It is not an error to delete an absent id.
func (s *MemorySectionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, id)
	return nil
}
