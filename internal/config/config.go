// Package config gathers the settings of the loadcontig command from
// flags, environment variables and an optional YAML file, in that order of
// precedence.
package config

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zeebo/errs"
	"go.uber.org/zap/zapcore"

	"github.com/zeebo/loadcontig/contig"
	"github.com/zeebo/loadcontig/internal/digest"
)

// Error is the class that contains all the errors from this package.
var Error = errs.Class("config")

// EnvPrefix prefixes every environment variable, with dots in keys
// replaced by underscores: LOADCONTIG_BUFFER_KIND.
const EnvPrefix = "LOADCONTIG"

// searchPaths are the directories searched for loadcontig.yaml when no
// file is named explicitly.
var searchPaths = []string{"/etc/loadcontig", "."}

// Buffer kinds.
const (
	KindUDMABuf = "udmabuf"
	KindDevMem  = "devmem"
	KindMem     = "mem"
)

// Progress styles.
const (
	ProgressText = "text"
	ProgressBar  = "bar"
	ProgressLog  = "log"
	ProgressNone = "none"
)

// Config is the validated configuration of a run.
type Config struct {
	File string // file the settings were read from, if any

	Buffer struct {
		Kind     string
		Name     string // u-dma-buf device name
		Device   string // memory device for devmem
		Sysfs    string // u-dma-buf sysfs class directory
		PhysAddr uint64
		Size     uint64
	}

	Loader struct {
		FrameSize int
		Direct    bool
		Verify    digest.Kind
	}

	Progress []string // progress styles, all of them driven together
	LogLevel zapcore.Level
}

// flag names and the keys they are bound to.
var bindings = map[string]string{
	"buffer":     "buffer.kind",
	"name":       "buffer.name",
	"device":     "buffer.device",
	"sysfs":      "buffer.sysfs",
	"phys-addr":  "buffer.phys_addr",
	"size":       "buffer.size",
	"frame-size": "loader.frame_size",
	"direct":     "loader.direct",
	"verify":     "loader.verify",
	"progress":   "progress",
	"log-level":  "log.level",
}

// Flags registers the command line flags understood by Load.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "configuration file (default: loadcontig.yaml in /etc/loadcontig or .)")
	fs.String("buffer", KindUDMABuf, "contiguous buffer kind: udmabuf, devmem or mem")
	fs.String("name", "udmabuf0", "u-dma-buf device name")
	fs.String("device", "/dev/mem", "memory device used by the devmem buffer")
	fs.String("sysfs", contig.DefaultSysfs, "u-dma-buf sysfs class directory")
	fs.String("phys-addr", "0", "physical address of the devmem or mem buffer")
	fs.String("size", "0", "size of the devmem or mem buffer, e.g. 2GiB")
	fs.String("frame-size", "1GiB", "largest chunk moved in one step")
	fs.Bool("direct", false, "read chunks straight into the buffer without staging")
	fs.String("verify", string(digest.None), "verify the buffer after loading: none, xxhash or highway")
	fs.String("progress", ProgressText, "progress display: text, bar, log or none; a comma separated list drives several")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
}

// Load reads the configuration, giving flags set on fs precedence over the
// environment, which has precedence over the configuration file.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	for flag, key := range bindings {
		f := fs.Lookup(flag)
		if f == nil {
			return nil, Error.New("flag %q not registered", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, Error.Wrap(err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
	} else {
		v.SetConfigName("loadcontig")
		v.SetConfigType("yaml")
		for _, path := range searchPaths {
			v.AddConfigPath(path)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, Error.Wrap(err)
		}
	}

	return parse(v)
}

func parse(v *viper.Viper) (*Config, error) {
	cfg := new(Config)
	cfg.File = v.ConfigFileUsed()

	cfg.Buffer.Kind = strings.ToLower(v.GetString("buffer.kind"))
	cfg.Buffer.Name = v.GetString("buffer.name")
	cfg.Buffer.Device = v.GetString("buffer.device")
	cfg.Buffer.Sysfs = v.GetString("buffer.sysfs")

	var err error
	if cfg.Buffer.PhysAddr, err = strconv.ParseUint(strings.TrimSpace(v.GetString("buffer.phys_addr")), 0, 64); err != nil {
		return nil, Error.New("buffer.phys_addr: %v", err)
	}
	if cfg.Buffer.Size, err = humanize.ParseBytes(v.GetString("buffer.size")); err != nil {
		return nil, Error.New("buffer.size: %v", err)
	}

	switch cfg.Buffer.Kind {
	case KindUDMABuf:
		if cfg.Buffer.Name == "" {
			return nil, Error.New("buffer.name: required for %s buffers", cfg.Buffer.Kind)
		}
	case KindDevMem, KindMem:
		if cfg.Buffer.Size == 0 {
			return nil, Error.New("buffer.size: required for %s buffers", cfg.Buffer.Kind)
		}
	default:
		return nil, Error.New("buffer.kind: unknown kind %q", cfg.Buffer.Kind)
	}

	frame, err := humanize.ParseBytes(v.GetString("loader.frame_size"))
	if err != nil {
		return nil, Error.New("loader.frame_size: %v", err)
	}
	if frame == 0 || frame > math.MaxInt {
		return nil, Error.New("loader.frame_size: out of range: %d", frame)
	}
	cfg.Loader.FrameSize = int(frame)
	cfg.Loader.Direct = v.GetBool("loader.direct")

	if cfg.Loader.Verify, err = digest.Parse(v.GetString("loader.verify")); err != nil {
		return nil, Error.New("loader.verify: %v", err)
	}

	for _, style := range strings.Split(v.GetString("progress"), ",") {
		switch style = strings.ToLower(strings.TrimSpace(style)); style {
		case ProgressText, ProgressBar, ProgressLog, ProgressNone:
			cfg.Progress = append(cfg.Progress, style)
		default:
			return nil, Error.New("progress: unknown style %q", style)
		}
	}

	if cfg.LogLevel, err = zapcore.ParseLevel(v.GetString("log.level")); err != nil {
		return nil, Error.New("log.level: %v", err)
	}

	return cfg, nil
}
