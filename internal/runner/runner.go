package runner

import (
	"context"
	"io"
	"net"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/nbtscan/pkg/nbstat"
	"github.com/projectdiscovery/nbtscan/pkg/output"
	"github.com/projectdiscovery/nbtscan/pkg/peerdiscovery/nbtscan"
	"github.com/projectdiscovery/nbtscan/pkg/targets"
	errorutil "github.com/projectdiscovery/utils/errors"
)

// Runner contains the internal logic of the program
type Runner struct {
	options    *Options
	source     targets.Source
	scanner    *nbtscan.Scanner
	writers    []output.Writer
	outputFile *os.File
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	source, err := resolveTargets(options)
	if err != nil {
		return nil, err
	}

	r := &Runner{options: options, source: source}
	if err := r.setupWriters(os.Stdout); err != nil {
		return nil, err
	}

	scanner, err := nbtscan.New(&nbtscan.Options{
		Timeout:      options.timeout(),
		Retransmits:  options.Retransmits,
		Bandwidth:    options.bandwidth,
		UseFixedPort: options.FixedPort,
		Port:         options.Port,
		Quiet:        options.Quiet,
		Logger:       gologger.DefaultLogger,
	})
	if err != nil {
		r.Close()
		return nil, err
	}
	r.scanner = scanner
	return r, nil
}

func resolveTargets(options *Options) (targets.Source, error) {
	switch {
	case options.Local:
		return targets.Local()
	case options.TargetList != "":
		return targets.FromFile(options.TargetList)
	}

	sources := make([]targets.Source, 0, len(options.Targets))
	for _, expr := range options.Targets {
		source, err := targets.Parse(expr)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	if len(sources) == 1 {
		return sources[0], nil
	}
	return targets.Multi(sources...), nil
}

// setupWriters prints results to stdout and, uncoloured, to the output file
func (r *Runner) setupWriters(stdout io.Writer) error {
	cfg := r.options.outputConfig()
	writer, err := output.New(cfg, stdout)
	if err != nil {
		return err
	}
	r.writers = append(r.writers, writer)

	if r.options.Output == "" {
		return nil
	}
	file, err := os.Create(r.options.Output)
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("could not create output file %s", r.options.Output)
	}
	r.outputFile = file

	fileCfg := *cfg
	fileCfg.NoColor = true
	fileWriter, err := output.New(&fileCfg, file)
	if err != nil {
		return err
	}
	r.writers = append(r.writers, fileWriter)
	return nil
}

// Run the instance
func (r *Runner) Run(ctx context.Context) error {
	gologger.Info().Msgf("Doing NBT name scan for addresses from %s\n", r.source)
	if r.options.bandwidth > 0 {
		gologger.Verbose().Msgf("Throttling queries to %s", humanize.SI(r.options.bandwidth, "bit/s"))
	}

	for _, writer := range r.writers {
		if err := writer.Header(); err != nil {
			return errorutil.NewWithErr(err).Msgf("could not write output header")
		}
	}

	stats, err := r.scanner.Scan(ctx, r.source, r.onResult)
	if stats != nil {
		r.printSummary(stats)
	}
	return err
}

func (r *Runner) onResult(ip net.IP, record *nbstat.HostRecord, rtt time.Duration) {
	gologger.Debug().Msgf("Reply from %s in %s", ip, rtt)
	for _, writer := range r.writers {
		if err := writer.Write(ip, record, rtt); err != nil {
			gologger.Warning().Msgf("Could not write result for %s: %s\n", ip, err)
		}
	}
}

func (r *Runner) printSummary(stats *nbtscan.Stats) {
	gologger.Info().Msgf("Scanned %s addresses in %s: %s hosts replied, %s queries sent in %d round(s)",
		humanize.Comma(int64(stats.Targets)),
		stats.Duration.Round(time.Millisecond),
		au.Bold(humanize.Comma(int64(stats.Accepted))),
		humanize.Comma(int64(stats.Sent)),
		stats.Rounds,
	)
	if stats.Duplicates > 0 || stats.Broken > 0 || stats.DecodeErrors > 0 {
		gologger.Verbose().Msgf("%d duplicate, %d truncated and %d undecodable replies", stats.Duplicates, stats.Broken, stats.DecodeErrors)
	}
}

// Close the runner instance
func (r *Runner) Close() {
	if r.scanner != nil {
		_ = r.scanner.Close()
	}
	if r.outputFile != nil {
		_ = r.outputFile.Close()
	}
}
