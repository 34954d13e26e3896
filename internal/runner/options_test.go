package runner

import (
	"errors"
	"testing"

	"github.com/projectdiscovery/nbtscan/pkg/output"
)

func validOptions() *Options {
	return &Options{
		Targets: []string{"192.168.1.0/24"},
		Timeout: 1000,
		Port:    137,
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Options)
		wantErr  error
		validate func(t *testing.T, o *Options)
	}{
		{
			name:   "defaults",
			modify: func(*Options) {},
			validate: func(t *testing.T, o *Options) {
				if o.mode != output.Table || o.bandwidth != 0 {
					t.Errorf("mode = %s, bandwidth = %v", o.mode, o.bandwidth)
				}
			},
		},
		{
			name:   "bandwidth with suffix",
			modify: func(o *Options) { o.Bandwidth = "64k" },
			validate: func(t *testing.T, o *Options) {
				if o.bandwidth != 64000 {
					t.Errorf("bandwidth = %v, want 64000", o.bandwidth)
				}
			},
		},
		{
			name:   "verbose human readable",
			modify: func(o *Options) { o.Verbose, o.HumanReadable = true, true },
			validate: func(t *testing.T, o *Options) {
				if o.mode != output.Verbose {
					t.Errorf("mode = %s, want verbose", o.mode)
				}
			},
		},
		{name: "list only", modify: func(o *Options) { o.Targets, o.TargetList = nil, "targets.txt" }},
		{name: "local only", modify: func(o *Options) { o.Targets, o.Local = nil, true }},
		{name: "no target", modify: func(o *Options) { o.Targets = nil }, wantErr: errAny},
		{name: "target and list", modify: func(o *Options) { o.TargetList = "targets.txt" }, wantErr: errAny},
		{name: "target and local", modify: func(o *Options) { o.Local = true }, wantErr: errAny},
		{name: "zero timeout", modify: func(o *Options) { o.Timeout = 0 }, wantErr: errAny},
		{name: "negative retransmits", modify: func(o *Options) { o.Retransmits = -2 }, wantErr: errAny},
		{name: "bad port", modify: func(o *Options) { o.Port = 0 }, wantErr: errAny},
		{name: "bad bandwidth", modify: func(o *Options) { o.Bandwidth = "fast" }, wantErr: errAny},
		{name: "zero bandwidth", modify: func(o *Options) { o.Bandwidth = "0" }, wantErr: errAny},
		{name: "dump and verbose", modify: func(o *Options) { o.Dump, o.Verbose = true, true }, wantErr: output.ErrIncompatibleOptions},
		{name: "hosts and lmhosts", modify: func(o *Options) { o.Hosts, o.LMHosts = true, true }, wantErr: output.ErrIncompatibleOptions},
		{name: "dump script friendly", modify: func(o *Options) { o.Dump, o.Separator = true, "," }, wantErr: output.ErrIncompatibleOptions},
		{name: "human without verbose", modify: func(o *Options) { o.HumanReadable = true }, wantErr: output.ErrIncompatibleOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := validOptions()
			tt.modify(options)
			err := options.validateOptions()
			switch {
			case tt.wantErr == nil && err != nil:
				t.Fatalf("validateOptions() error = %v", err)
			case tt.wantErr != nil && err == nil:
				t.Fatal("validateOptions() expected error")
			case tt.wantErr != nil && tt.wantErr != errAny && !errors.Is(err, tt.wantErr):
				t.Fatalf("validateOptions() error = %v, want %v", err, tt.wantErr)
			}
			if tt.validate != nil {
				tt.validate(t, options)
			}
		})
	}
}

// errAny matches any non-nil error in table tests
var errAny = errors.New("any error")

func TestParseBandwidth(t *testing.T) {
	tests := []struct {
		value   string
		want    float64
		wantErr bool
	}{
		{value: "128000", want: 128000},
		{value: "64k", want: 64000},
		{value: "1.5M", want: 1500000},
		{value: "10kbps", want: 10000},
		{value: "", wantErr: true},
		{value: "-5k", wantErr: true},
		{value: "3 parsecs", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseBandwidth(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseBandwidth(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseBandwidth(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
