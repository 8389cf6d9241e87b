// Command suo assembles and runs one receive/transmit pipeline from a
// configuration file, grounded on the teacher's cmd/direwolf (one binary,
// pflag-parsed, positional config file argument) generalized from its
// single hardcoded modem/AX.25 stack to the pluggable, by-name stage
// selection pkg/config's Assembler provides.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/kg7gio/suo/pkg/coding"
	"github.com/kg7gio/suo/pkg/config"
	"github.com/kg7gio/suo/pkg/frameio"
	"github.com/kg7gio/suo/pkg/framing/golay"
	"github.com/kg7gio/suo/pkg/framing/hdlc"
	"github.com/kg7gio/suo/pkg/modem"
	"github.com/kg7gio/suo/pkg/rlog"
	"github.com/kg7gio/suo/pkg/signalio"
	"github.com/kg7gio/suo/pkg/suo"
)

const version = "suo 0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		receiverName    = pflag.String("receiver", "hdlc", "Receiver implementation: hdlc, golay.")
		decoderName     = pflag.String("decoder", "basic", "Decoder implementation: basic, reed-solomon.")
		rxOutputName    = pflag.String("rx-output", "test_output", "RxOutput implementation: test_output, file_output.")
		transmitterName = pflag.String("transmitter", "simple-transmitter", "Transmitter implementation.")
		encoderName     = pflag.String("encoder", "basic", "Encoder implementation: basic, reed-solomon.")
		txInputName     = pflag.String("tx-input", "hdlc", "TxInput (framer) implementation: hdlc, golay.")
		signalIOName    = pflag.String("signal-io", "wav", "SignalIO implementation.")

		harness    = pflag.Bool("harness", false, "Drive tx_input from a built-in periodic test source instead of an external frame bus.")
		framesOut  = pflag.String("frames-out", "", "File to append file_output's decoded frames to, hex-encoded one per line. Defaults to stdout.")
		inPath     = pflag.String("in", "", "Sample file to read signal_io's input from. Defaults to stdin.")
		outPath    = pflag.String("out", "", "Sample file to write signal_io's output to. Defaults to stdout.")
		dumpConfig = pflag.Bool("dump-config", false, "Print the fully-resolved configuration as YAML and exit without running.")
		logLevel   = pflag.String("log-level", "info", "Log level: debug, info, warn, error.")
		tsFormat   = pflag.String("timestamp-format", "", "strftime pattern used to render frame timestamps in log lines.")
		showVer    = pflag.Bool("version", false, "Print version and exit.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - software-defined-radio framing pipeline runner.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [config-file]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *showVer {
		fmt.Println(version)
		return 0
	}

	logger, err := rlog.New(os.Stderr, rlog.ParseLevel(*logLevel), *tsFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "suo: %v\n", err)
		return 1
	}

	in, cleanupIn, err := openInput(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "suo: %v\n", err)
		return 1
	}
	defer cleanupIn()

	out, cleanupOut, err := openOutput(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "suo: %v\n", err)
		return 1
	}
	defer cleanupOut()

	framesWriter, cleanupFrames, err := openOutput(*framesOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "suo: %v\n", err)
		return 1
	}
	defer cleanupFrames()

	asm := buildAssembler(in, out, framesWriter)

	names := config.StageNames{
		Receiver:    *receiverName,
		Decoder:     *decoderName,
		RxOutput:    *rxOutputName,
		Transmitter: *transmitterName,
		Encoder:     *encoderName,
		TxInput:     *txInputName,
		SignalIO:    *signalIOName,
	}

	var sections []config.Section
	if configPath := pflag.Arg(0); configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "suo: %v\n", err)
			return 1
		}
		defer f.Close()
		sections, err = config.Parse(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "suo: %v\n", err)
			return 1
		}
	}

	if *dumpConfig {
		printDumpedConfig(names, sections)
		return 0
	}

	builder, err := asm.Assemble(names, sections)
	if err != nil {
		fmt.Fprintf(os.Stderr, "suo: %v\n", err)
		return 1
	}

	pipeline, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "suo: %v\n", err)
		return 1
	}
	defer pipeline.Close()

	if *harness {
		wireHarness(builder, logger)
	}

	logger.Info("pipeline assembled", "receiver", names.Receiver, "transmitter", names.Transmitter, "signal_io", names.SignalIO)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := pipeline.Run(ctx); err != nil {
		logger.Error("pipeline stopped", "reason", err.Error())
		return 1
	}

	logger.Info("pipeline stopped cleanly")
	return 0
}

// buildAssembler registers every stage implementation this binary ships
// with, mirroring original_source/suoapp/configure.c's fixed wiring but
// by name rather than by compile-time constant (spec.md §9 redesign
// flag).
func buildAssembler(in io.Reader, out io.Writer, framesOut io.Writer) *config.Assembler {
	asm := config.NewAssembler()

	asm.RegisterReceiver("hdlc", func() suo.Receiver {
		return modem.NewSimpleReceiver(hdlc.NewDeframer(*hdlc.DefaultHDLCConfig()))
	})
	asm.RegisterReceiver("golay", func() suo.Receiver {
		return modem.NewSimpleReceiver(golay.NewDeframer(*golay.DefaultGolayConfig()))
	})

	asm.RegisterDecoder("basic", func() suo.Decoder { return &coding.BasicDecoder{} })
	asm.RegisterDecoder("reed-solomon", func() suo.Decoder { return &coding.RSDecoder{} })

	asm.RegisterRxOutput("test_output", func() suo.RxOutput { return frameio.NewTestSink(16) })
	asm.RegisterRxOutput("file_output", func() suo.RxOutput { return frameio.NewFileSink(framesOut) })

	asm.RegisterTransmitter("simple-transmitter", func() suo.Transmitter { return modem.NewSimpleTransmitter() })

	asm.RegisterEncoder("basic", func() suo.Encoder { return &coding.BasicEncoder{} })
	asm.RegisterEncoder("reed-solomon", func() suo.Encoder { return &coding.RSEncoder{} })

	asm.RegisterTxInput("hdlc", func() suo.TxInput { return hdlc.NewFramer() })
	asm.RegisterTxInput("golay", func() suo.TxInput { return golay.NewFramer() })

	asm.RegisterSignalIO("wav", func() suo.SignalIO { return signalio.NewWAVSignalIO(in, out) })

	return asm
}

// wireHarness connects a periodic built-in frame generator to the
// assembled tx_input, standing in for the real frame bus spec.md scopes
// out, reproducing original_source/libsuo/frame-io/test_interface.c's
// test_input behaviour end to end.
func wireHarness(b *suo.Builder, logger *rlog.Logger) {
	source := &frameio.PeriodicTestSource{
		Payload:       []byte("suo harness test frame"),
		FrameInterval: 20_000_000, // 20ms, matching test_interface.c's default
	}

	switch txInput := b.TxInput.(type) {
	case *hdlc.Framer:
		_ = txInput.SourceFrame.Connect(source.Handler)
	case *golay.Framer:
		_ = txInput.SourceFrame.Connect(source.Handler)
	case nil:
	default:
		logger.Warn("harness mode requested but tx_input does not expose a connectable frame source port")
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

type dumpedConfig struct {
	Stages   config.StageNames `yaml:"stages"`
	Sections [][]config.Param  `yaml:"sections"`
}

func printDumpedConfig(names config.StageNames, sections []config.Section) {
	d := dumpedConfig{Stages: names}
	for _, s := range sections {
		d.Sections = append(d.Sections, s.Params)
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	_ = enc.Encode(d)
}
