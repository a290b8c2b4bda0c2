// Command optimize reads a Clifford+T circuit section from a JSON file,
// runs it through the fixed-point optimizer and measurement absorption,
// and writes the optimized section back out as JSON.
//
// Grounded on cmd/edge/main.go's flag-parsing/DI-wiring/signal-handling
// shape: envordot for .env loading, go-flags for the CLI, a dig.Container
// wired through core.SystemComponents, oklog/run for the worker pool and
// signal handling.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	flags "github.com/jessevdk/go-flags"
	jsoniter "github.com/json-iterator/go"
	"github.com/massn/envordot"
	"github.com/oklog/run"
	"github.com/tidwall/pretty"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/oqtopus-team/cliffordt-optimizer/core"
	"github.com/oqtopus-team/cliffordt-optimizer/gate"
	"github.com/oqtopus-team/cliffordt-optimizer/log"
	"github.com/oqtopus-team/cliffordt-optimizer/optimizer"
	"github.com/oqtopus-team/cliffordt-optimizer/pauli"
	"github.com/oqtopus-team/cliffordt-optimizer/scheduler"
)

var versionByBuildFlag string

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// cliParams are the flags specific to this command; Conf carries the rest
// of the ambient configuration (logging, queue sizing, time budget).
type cliParams struct {
	Input  string    `long:"input" short:"i" description:"input circuit JSON file" required:"true"`
	Output string    `long:"output" short:"o" description:"output path; - or omitted means stdout" default:"-"`
	Pretty bool      `long:"pretty" description:"pretty-print the output JSON"`
	Conf   core.Conf `group:"logging and pipeline configuration"`
}

// circuitInput is the on-disk wire format for a circuit section: qubit
// count, ancilla boundary, and a flat operation list reusing
// core.OperationDTO so input and cached/output results share one shape.
type circuitInput struct {
	N            int                 `json:"n"`
	AncillaBegin int                 `json:"ancilla_begin"`
	Ops          []core.OperationDTO `json:"ops"`
}

func main() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("no .env file found, using environment variables only: %s\n", err)
	}

	var params cliParams
	parser := flags.NewParser(&params, flags.Default)
	parser.ShortDescription = "cliffordt-optimizer"
	parser.LongDescription = heredoc.Doc(`
		Clifford+T circuit section optimizer.

		Reads a circuit section as JSON (qubit count, ancilla boundary, and a
		flat rotation/measurement list), pushes every T-rotation to the
		front (rewriting it as it crosses each rotation it does not commute
		with), greedily merges the resulting layers, absorbs trailing
		Clifford rotations into the trailing measurements, and writes the
		reduced section back out as JSON.
	`)
	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger, err := log.Setup(&params.Conf)
	if err != nil {
		fmt.Printf("failed to set up logger: %s\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	core.SetVersion(&params.Conf, versionByBuildFlag)

	if err := loadSetting(&params.Conf); err != nil {
		zap.L().Error(fmt.Sprintf("failed to load settings: %s", err))
		os.Exit(1)
	}

	sc, err := setupSystemComponents(&params.Conf)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to set up system components: %s", err))
		os.Exit(1)
	}
	defer sc.TearDown()

	if err := sc.StartContainer(); err != nil {
		zap.L().Error(fmt.Sprintf("failed to start pipeline: %s", err))
		os.Exit(1)
	}

	if params.Conf.MetricsIntervalSeconds > 0 {
		stopMetrics := make(chan struct{})
		defer close(stopMetrics)
		log.StartQueueMetrics(sc, time.Duration(params.Conf.MetricsIntervalSeconds)*time.Second, stopMetrics)
	}

	var opErr error
	var g run.Group
	g.Add(run.SignalHandler(context.Background(), os.Interrupt))
	g.Add(func() error {
		opErr = runOnce(sc, &params)
		return opErr
	}, func(error) {})

	if runErr := g.Run(); runErr != nil {
		zap.L().Debug(fmt.Sprintf("run group stopped: %s", runErr))
	}
	if opErr != nil {
		zap.L().Error(fmt.Sprintf("optimization failed: %s", opErr))
		os.Exit(1)
	}
}

// loadSetting registers the layer partitioner's tuning knobs and decodes
// them from conf.SettingPath, grounded on cmd/edge/main.go's
// ResetSetting/registerSetting/ParseSettingFromPath sequence. Unlike that
// sequence, a missing settings file is not fatal here — this CLI has a
// usable built-in default tuning, so the file is optional.
func loadSetting(conf *core.Conf) error {
	core.ResetSetting()
	layerSetting := optimizer.NewDefaultLayerSetting()
	core.RegisterSetting("optimizer", layerSetting)

	if err := core.ParseSettingFromPath(conf.SettingPath); err != nil {
		if os.IsNotExist(err) {
			zap.L().Debug(fmt.Sprintf("no setting file at %s, using built-in tuning", conf.SettingPath))
			return nil
		}
		return err
	}

	if v, ok := core.GetComponentSetting("optimizer"); ok {
		optimizer.ApplyLayerSetting(v.(*optimizer.LayerSetting))
	}
	return nil
}

func setupSystemComponents(conf *core.Conf) (*core.SystemComponents, error) {
	container := dig.New()
	if err := container.Provide(func() core.SectionStore { return &core.MemorySectionStore{} }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() core.Pipeline { return &scheduler.Pipeline{} }); err != nil {
		return nil, err
	}

	sc := core.NewSystemComponents(container)
	if err := sc.Setup(conf); err != nil {
		return nil, err
	}
	return sc, nil
}

func runOnce(sc *core.SystemComponents, params *cliParams) error {
	circuit, err := loadCircuit(params.Input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", params.Input, err)
	}

	if err := sc.Container.Invoke(func(p core.Pipeline) error {
		p.HandleSection(circuit)
		return nil
	}); err != nil {
		return err
	}

	result := core.NewSectionResult(circuit)
	if params.Conf.EmitLayers {
		result.Layers = core.LayersToDTO(optimizer.PartitionLayers(circuit.Operations))
	}
	return writeResult(params.Output, result, params.Pretty)
}

func loadCircuit(path string) (*gate.Circuit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var input circuitInput
	if err := jsonIter.Unmarshal(raw, &input); err != nil {
		return nil, err
	}

	ops := make([]gate.Operation, len(input.Ops))
	for i, dto := range input.Ops {
		basis, err := pauliBasis(dto, input.N)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		switch dto.Kind {
		case "rotation":
			r, err := gate.NewRotation(basis, gate.Angle(dto.Angle))
			if err != nil {
				return nil, fmt.Errorf("operation %d: %w", i, err)
			}
			ops[i] = r
		case "measurement":
			ops[i] = gate.NewMeasurement(basis, dto.Phase)
		default:
			return nil, fmt.Errorf("operation %d: unknown kind %q", i, dto.Kind)
		}
	}

	return gate.NewCircuitFromOperations(ops, input.N, input.AncillaBegin)
}

func pauliBasis(dto core.OperationDTO, n int) (pauli.String, error) {
	return pauli.NewFromBasis([]byte(dto.Chars), dto.Qubits, n)
}

func writeResult(path string, result *core.SectionResult, prettyPrint bool) error {
	data, err := jsonIter.Marshal(result)
	if err != nil {
		return err
	}
	if prettyPrint {
		data = pretty.Pretty(data)
	}

	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
