// loadcontig loads a file into a reserved, physically contiguous buffer so
// that a DMA capable device can consume it.
//
// Usage:
//
//	loadcontig [flags] <file>
//
// The buffer is described by flags, LOADCONTIG_* environment variables or
// loadcontig.yaml. See --help for the full list.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zeebo/loadcontig"
	"github.com/zeebo/loadcontig/contig"
	"github.com/zeebo/loadcontig/internal/config"
	"github.com/zeebo/loadcontig/internal/digest"
	"github.com/zeebo/loadcontig/internal/progress"
)

// Exit statuses.
const (
	exitOK    = 0
	exitLoad  = 1 // the load failed
	exitUsage = 2 // the command line or configuration is invalid
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// buffer is a contiguous buffer owned by the command.
type buffer interface {
	contig.Buffer
	Close() error
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("loadcontig", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: loadcontig [flags] <file>\n\nflags:\n")
		fs.PrintDefaults()
	}
	config.Flags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "error: missing filename on command line")
		fs.Usage()
		return exitUsage
	}
	path := fs.Arg(0)

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	log := newLogger(stderr, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	if cfg.File != "" {
		log.Debug("using configuration", zap.String("file", cfg.File))
	}

	buf, err := openBuffer(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitLoad
	}
	defer func() {
		if err := buf.Close(); err != nil {
			log.Warn("unmapping contiguous buffer", zap.Error(err))
		}
	}()

	rep := newReporter(cfg, stdout, stderr, path, log)
	loader := &loadcontig.Loader{
		FrameSize: cfg.Loader.FrameSize,
		Direct:    cfg.Loader.Direct,
		Verify:    string(cfg.Loader.Verify),
		Progress:  rep,
		Log:       log,
	}

	res, err := loader.LoadFile(path, buf)
	if err != nil {
		rep.Break()
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitLoad
	}

	if cfg.Loader.Verify != digest.None {
		log.Info("verified",
			zap.String("digest", string(cfg.Loader.Verify)),
			zap.String("sum", fmt.Sprintf("%016x", res.Digest)))
	}
	return exitOK
}

func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

func openBuffer(cfg *config.Config) (buffer, error) {
	switch cfg.Buffer.Kind {
	case config.KindMem:
		return contig.NewMem(cfg.Buffer.Size, cfg.Buffer.PhysAddr), nil
	case config.KindDevMem:
		return contig.NewDevMem(cfg.Buffer.Device, cfg.Buffer.PhysAddr, cfg.Buffer.Size), nil
	default:
		u, err := contig.OpenUDMABuf(cfg.Buffer.Sysfs, contig.DefaultDevDir, cfg.Buffer.Name)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
}

func newReporter(cfg *config.Config, stdout, stderr io.Writer, path string, log *zap.Logger) progress.Reporter {
	var reps progress.Multi
	for _, style := range cfg.Progress {
		switch style {
		case config.ProgressBar:
			reps = append(reps, progress.NewBar(stderr, path))
		case config.ProgressLog:
			reps = append(reps, progress.NewLog(log))
		case config.ProgressNone:
		default:
			reps = append(reps, progress.NewText(stdout))
		}
	}
	if len(reps) == 1 {
		return reps[0]
	}
	return reps
}
