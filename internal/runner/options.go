package runner

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	"github.com/projectdiscovery/nbtscan/pkg/nbstat"
	"github.com/projectdiscovery/nbtscan/pkg/output"
	"github.com/projectdiscovery/nbtscan/pkg/version"
	errorutil "github.com/projectdiscovery/utils/errors"
	envutil "github.com/projectdiscovery/utils/env"
	fileutil "github.com/projectdiscovery/utils/file"
)

var au = aurora.New(aurora.WithColors(true))

var (
	TimeoutEnv     = envutil.GetEnvOrDefault("NBTSCAN_TIMEOUT", 1000)
	RetransmitsEnv = envutil.GetEnvOrDefault("NBTSCAN_RETRANSMITS", 0)
)

// Options contains the configuration options for tuning the scan.
type Options struct {
	Targets    goflags.StringSlice
	TargetList string
	Local      bool

	Timeout     int
	Retransmits int
	Bandwidth   string
	FixedPort   bool
	Port        int

	Verbose       bool
	Dump          bool
	Hosts         bool
	LMHosts       bool
	JSON          bool
	Separator     string
	HumanReadable bool
	Output        string
	NoColor       bool

	Quiet      bool
	Debug      bool
	Version    bool
	ConfigFile string

	// resolved by validateOptions
	mode      output.Mode
	bandwidth float64
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`nbtscan scans IP networks for NetBIOS name information by sending NetBIOS status queries`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringSliceVarP(&options.Targets, "target", "t", nil, "target address, CIDR block or range to scan (comma separated)", goflags.NormalizedStringSliceOptions),
		flagSet.StringVarP(&options.TargetList, "list", "l", "", "file containing targets to scan, one per line (- for stdin)"),
		flagSet.BoolVar(&options.Local, "local", false, "scan the private networks of local interfaces"),
	)

	flagSet.CreateGroup("scan", "Scan",
		flagSet.IntVar(&options.Timeout, "timeout", TimeoutEnv, "time in milliseconds to wait for replies after the last query"),
		flagSet.IntVarP(&options.Retransmits, "retransmits", "m", RetransmitsEnv, "number of retransmits to silent hosts"),
		flagSet.StringVarP(&options.Bandwidth, "bandwidth", "b", "", "output throttling in bits per second, SI suffixes allowed (e.g. 64k)"),
		flagSet.BoolVarP(&options.FixedPort, "fixed-port", "r", false, "use local port 137 for scans (requires root, some Windows hosts only answer it)"),
		flagSet.IntVar(&options.Port, "port", nbstat.Port, "destination port of the queries"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "print all names received from each host"),
		flagSet.BoolVarP(&options.Dump, "dump", "d", false, "dump every field of each reply"),
		flagSet.BoolVarP(&options.Hosts, "hosts", "e", false, "format results as /etc/hosts"),
		flagSet.BoolVarP(&options.LMHosts, "lmhosts", "lm", false, "format results as lmhosts"),
		flagSet.BoolVarP(&options.JSON, "json", "j", false, "write results as json lines"),
		flagSet.StringVarP(&options.Separator, "separator", "s", "", "script-friendly output with fields separated by the given string"),
		flagSet.BoolVarP(&options.HumanReadable, "human", "hr", false, "print human-readable service names (verbose only)"),
		flagSet.StringVarP(&options.Output, "output", "o", "", "file to write results to"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVarP(&options.Quiet, "quiet", "q", false, "suppress banner and error messages"),
		flagSet.BoolVar(&options.Debug, "debug", false, "show debug output"),
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
		flagSet.StringVar(&options.ConfigFile, "config", "", "cli flag configuration file"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	if options.ConfigFile != "" {
		if !fileutil.FileExists(options.ConfigFile) {
			gologger.Fatal().Msgf("Config file %s does not exist\n", options.ConfigFile)
		}
		if err := flagSet.MergeConfigFile(options.ConfigFile); err != nil {
			gologger.Fatal().Msgf("Could not read config file: %s\n", err)
		}
	}

	// positional arguments are targets too
	options.Targets = append(options.Targets, flagSet.CommandLine.Args()...)

	// configure aurora for logging
	au = aurora.New(aurora.WithColors(true))

	options.configureOutput()

	if !options.Quiet {
		showBanner()
	}

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.GetVersion())
		os.Exit(0)
	}

	if err := options.validateOptions(); err != nil {
		gologger.Fatal().Msgf("Program exiting: %s\n", err)
	}

	return options
}

// validateOptions checks the flags for conflicts and resolves the derived
// settings
func (options *Options) validateOptions() error {
	sources := 0
	if len(options.Targets) > 0 {
		sources++
	}
	if options.TargetList != "" {
		sources++
	}
	if options.Local {
		sources++
	}
	switch {
	case sources == 0:
		return errorutil.New("no target specified, use -target, -list or -local")
	case sources > 1:
		return errorutil.New("-target, -list and -local cannot be combined")
	}

	if options.Timeout <= 0 {
		return fmt.Errorf("bad timeout value: %d", options.Timeout)
	}
	if options.Retransmits < 0 {
		return fmt.Errorf("bad number of retransmits: %d", options.Retransmits)
	}
	if options.Port <= 0 || options.Port > 65535 {
		return fmt.Errorf("bad destination port: %d", options.Port)
	}

	if options.Bandwidth != "" {
		bandwidth, err := parseBandwidth(options.Bandwidth)
		if err != nil {
			return err
		}
		options.bandwidth = bandwidth
	}

	mode, err := output.ModeFromFlags(output.Flags{
		Verbose: options.Verbose,
		Dump:    options.Dump,
		Hosts:   options.Hosts,
		LMHosts: options.LMHosts,
		JSON:    options.JSON,
	})
	if err != nil {
		return err
	}
	options.mode = mode
	return options.outputConfig().Validate()
}

// parseBandwidth parses a bits per second value with an optional SI suffix
func parseBandwidth(value string) (float64, error) {
	bandwidth, unit, err := humanize.ParseSI(strings.TrimSpace(value))
	if err != nil {
		return 0, errorutil.NewWithErr(err).Msgf("bad bandwidth value: %s", value)
	}
	if unit != "" && !strings.EqualFold(unit, "bps") && !strings.EqualFold(unit, "bit/s") {
		return 0, fmt.Errorf("bad bandwidth unit %q in %s", unit, value)
	}
	if bandwidth <= 0 {
		return 0, fmt.Errorf("bad bandwidth value: %s", value)
	}
	return bandwidth, nil
}

func (options *Options) timeout() time.Duration {
	return time.Duration(options.Timeout) * time.Millisecond
}

func (options *Options) outputConfig() *output.Config {
	return &output.Config{
		Mode:          options.mode,
		Separator:     options.Separator,
		HumanReadable: options.HumanReadable,
		NoColor:       options.NoColor,
		Quiet:         options.Quiet,
	}
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	if options.Debug {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	if options.Quiet {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}
