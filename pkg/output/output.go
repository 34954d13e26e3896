package output

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/nbtscan/pkg/nbstat"
)

// Mode selects how host records are printed.
type Mode int

const (
	// Table prints one line per host: address, computer name, server flag,
	// user and hardware address.
	Table Mode = iota
	// Verbose prints the full name table of every host.
	Verbose
	// Dump prints every decoded field of every reply.
	Dump
	// Hosts prints /etc/hosts lines.
	Hosts
	// LMHosts prints lmhosts lines preloaded with #PRE.
	LMHosts
	// JSON prints one JSON object per host.
	JSON
)

func (m Mode) String() string {
	switch m {
	case Table:
		return "table"
	case Verbose:
		return "verbose"
	case Dump:
		return "dump"
	case Hosts:
		return "hosts"
	case LMHosts:
		return "lmhosts"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// ErrIncompatibleOptions is returned for output options that cannot be
// combined.
var ErrIncompatibleOptions = errors.New("incompatible output options")

// Flags are the command line switches that select an output mode.
type Flags struct {
	Verbose bool
	Dump    bool
	Hosts   bool
	LMHosts bool
	JSON    bool
}

// ModeFromFlags resolves the switches into a single mode. At most one may be
// set; none selects Table.
func ModeFromFlags(flags Flags) (Mode, error) {
	selected := []struct {
		set  bool
		mode Mode
		flag string
	}{
		{flags.Verbose, Verbose, "verbose (-v)"},
		{flags.Dump, Dump, "dump (-d)"},
		{flags.Hosts, Hosts, "/etc/hosts (-e)"},
		{flags.LMHosts, LMHosts, "lmhosts (-lm)"},
		{flags.JSON, JSON, "json (-j)"},
	}

	mode, chosen := Table, ""
	for _, s := range selected {
		if !s.set {
			continue
		}
		if chosen != "" {
			return Table, fmt.Errorf("%w: cannot be used with both %s and %s options", ErrIncompatibleOptions, chosen, s.flag)
		}
		mode, chosen = s.mode, s.flag
	}
	return mode, nil
}

// Config configures a Writer.
type Config struct {
	Mode Mode
	// Separator switches Table and Verbose to script-friendly lines with
	// fields joined by it.
	Separator string
	// HumanReadable prints service descriptions instead of codes in
	// Verbose mode.
	HumanReadable bool
	NoColor       bool
	// Quiet suppresses the table column header.
	Quiet bool
}

// Validate checks that the modifiers fit the mode.
func (c *Config) Validate() error {
	if c.Mode < Table || c.Mode > JSON {
		return fmt.Errorf("%w: unknown mode %d", ErrIncompatibleOptions, c.Mode)
	}
	if c.Separator != "" && c.Mode != Table && c.Mode != Verbose {
		return fmt.Errorf("%w: script-friendly (-s) output cannot be used with %s mode", ErrIncompatibleOptions, c.Mode)
	}
	if c.HumanReadable && c.Mode != Verbose {
		return fmt.Errorf("%w: human-readable service names (-hr) require verbose (-v) mode", ErrIncompatibleOptions)
	}
	return nil
}

// Writer prints host records.
type Writer interface {
	// Header prints whatever precedes the first record.
	Header() error
	// Write prints one host record received from ip.
	Write(ip net.IP, record *nbstat.HostRecord, rtt time.Duration) error
}

// New returns the writer for cfg printing to w.
func New(cfg *Config, w io.Writer) (Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	au := aurora.New(aurora.WithColors(!cfg.NoColor))

	switch cfg.Mode {
	case Verbose:
		return &verboseWriter{w: w, cfg: cfg, au: au}, nil
	case Dump:
		return &dumpWriter{w: w}, nil
	case Hosts:
		return &hostsWriter{w: w}, nil
	case LMHosts:
		return &hostsWriter{w: w, preload: true}, nil
	case JSON:
		return newJSONWriter(w), nil
	default:
		return &tableWriter{w: w, cfg: cfg, au: au}, nil
	}
}

const unknownName = "<unknown>"

func computerName(record *nbstat.HostRecord) string {
	if name, ok := record.ComputerName(); ok {
		return name
	}
	return unknownName
}

func userName(record *nbstat.HostRecord) string {
	if name, ok := record.UserName(); ok {
		return name
	}
	return unknownName
}
