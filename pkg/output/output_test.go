package output

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/projectdiscovery/nbtscan/pkg/nbstat"
	"github.com/tidwall/gjson"
)

var (
	testIP  = net.IPv4(192, 168, 1, 5)
	testMAC = []byte{0x00, 0x0c, 0x29, 0xab, 0xcd, 0xef}
)

func testRecord(t *testing.T) *nbstat.HostRecord {
	t.Helper()
	names := []nbstat.NameEntry{
		{Name: "PC01", Service: 0x00, Flags: 0x0400},
		{Name: "WORKGROUP", Service: 0x00, Flags: 0x8480},
		{Name: "PC01", Service: 0x20, Flags: 0x0400},
		{Name: "ALICE", Service: 0x03, Flags: 0x0400},
	}
	record, err := nbstat.Decode(nbstat.BuildResponse(0x0102, names, nbstat.BuildFooter(testMAC)))
	if err != nil {
		t.Fatal(err)
	}
	return record
}

func render(t *testing.T, cfg *Config, record *nbstat.HostRecord) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := New(cfg, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Header(); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(testIP, record, 3*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestWriters(t *testing.T) {
	rule := strings.Repeat("-", 40)

	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "table",
			cfg:  &Config{NoColor: true},
			want: "IP address       NetBIOS Name     Server    User             MAC address      \n" +
				strings.Repeat("-", 78) + "\n" +
				"192.168.1.5      PC01             <server>  ALICE            00:0c:29:ab:cd:ef\n",
		},
		{
			name: "table quiet",
			cfg:  &Config{NoColor: true, Quiet: true},
			want: "192.168.1.5      PC01             <server>  ALICE            00:0c:29:ab:cd:ef\n",
		},
		{
			name: "table script friendly",
			cfg:  &Config{Separator: ",", NoColor: true},
			want: "192.168.1.5,PC01,<server>,ALICE,00:0c:29:ab:cd:ef\n",
		},
		{
			name: "verbose",
			cfg:  &Config{Mode: Verbose, NoColor: true},
			want: "\nNetBIOS Name Table for Host 192.168.1.5:\n\n" +
				"Name             Service          Type             \n" +
				rule + "\n" +
				"PC01             <00>             UNIQUE\n" +
				"WORKGROUP        <00>              GROUP\n" +
				"PC01             <20>             UNIQUE\n" +
				"ALICE            <03>             UNIQUE\n" +
				"\nAdapter address: 00:0c:29:ab:cd:ef\n" +
				rule + "\n",
		},
		{
			name: "verbose human readable",
			cfg:  &Config{Mode: Verbose, HumanReadable: true, NoColor: true},
			want: "\nNetBIOS Name Table for Host 192.168.1.5:\n\n" +
				"Name             Service          Type             \n" +
				rule + "\n" +
				"PC01             Workstation Service\n" +
				"WORKGROUP        Domain Name\n" +
				"PC01             File Server Service\n" +
				"ALICE            Messenger Service\n" +
				"\nAdapter address: 00:0c:29:ab:cd:ef\n" +
				rule + "\n",
		},
		{
			name: "verbose script friendly",
			cfg:  &Config{Mode: Verbose, Separator: ":", NoColor: true},
			want: "192.168.1.5:PC01:00U\n" +
				"192.168.1.5:WORKGROUP:00G\n" +
				"192.168.1.5:PC01:20U\n" +
				"192.168.1.5:ALICE:03U\n" +
				"192.168.1.5:MAC:00:0c:29:ab:cd:ef\n",
		},
		{
			name: "verbose script friendly human readable",
			cfg:  &Config{Mode: Verbose, Separator: ",", HumanReadable: true, NoColor: true},
			want: "192.168.1.5,PC01,Workstation Service\n" +
				"192.168.1.5,WORKGROUP,Domain Name\n" +
				"192.168.1.5,PC01,File Server Service\n" +
				"192.168.1.5,ALICE,Messenger Service\n" +
				"192.168.1.5,MAC,00:0c:29:ab:cd:ef\n",
		},
		{
			name: "hosts",
			cfg:  &Config{Mode: Hosts},
			want: "192.168.1.5\tPC01\n",
		},
		{
			name: "lmhosts",
			cfg:  &Config{Mode: LMHosts},
			want: "192.168.1.5\tPC01\t#PRE\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, render(t, tt.cfg, testRecord(t))); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWritersUnknownHost(t *testing.T) {
	// a truncated reply without a name table
	record := &nbstat.HostRecord{Broken: 20}

	if got, want := render(t, &Config{Quiet: true, NoColor: true}, record),
		"192.168.1.5      <unknown>                  <unknown>        \n"; got != want {
		t.Errorf("table = %q, want %q", got, want)
	}
	if got, want := render(t, &Config{Mode: Hosts}, record), "192.168.1.5\t<unknown>\n"; got != want {
		t.Errorf("hosts = %q, want %q", got, want)
	}
	if got := render(t, &Config{Mode: Verbose, NoColor: true}, record); !strings.Contains(got, "Incomplete packet, 20 bytes long.\n") {
		t.Errorf("verbose output does not flag the truncated packet:\n%s", got)
	}
}

func TestDumpWriter(t *testing.T) {
	got := render(t, &Config{Mode: Dump}, testRecord(t))

	for _, line := range []string{
		"\nPacket dump for Host 192.168.1.5:\n\n",
		"Transaction ID: 0x0102 (258)\n",
		"Flags: 0x8400 (33792)\n",
		"Question name: CKAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA\n",
		"Question type: 0x0021 (33)\n",
		"Time to live: 0x00000000 (0)\n",
		"Number of names: 0x04 (4)\n",
		"Names received:\n",
		"WORKGROUP         Service: 0x00 Flags: 0x8480\n",
		"PC01              Service: 0x20 Flags: 0x0400\n",
		"Adapter address: 00:0c:29:ab:cd:ef\n",
		"Received: 0x00000000 (0)\n",
		"Packet sessions: 0x0000 (0)\n",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("dump is missing %q", line)
		}
	}
	if strings.Contains(got, "Incomplete packet") {
		t.Error("complete record reported as incomplete")
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&Config{Mode: JSON}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	record := testRecord(t)
	if err := w.Write(testIP, record, 1500*time.Microsecond); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(net.IPv4(10, 0, 0, 1), &nbstat.HostRecord{Broken: 9}, 0); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	first := gjson.Parse(lines[0])
	checks := map[string]string{
		"ip":                      "192.168.1.5",
		"rtt_ms":                  "1.5",
		"computer_name":           "PC01",
		"user_name":               "ALICE",
		"server":                  "true",
		"mac":                     "00:0c:29:ab:cd:ef",
		"names.#":                 "4",
		"names.1.name":            "WORKGROUP",
		"names.1.type":            "group",
		"names.2.service":         "20",
		"names.2.label":           "File Server Service",
		"statistics.max_sessions": "0",
	}
	for path, want := range checks {
		if got := first.Get(path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
	if first.Get("broken").Exists() {
		t.Error("complete record carries a broken count")
	}

	second := gjson.Parse(lines[1])
	if second.Get("broken").Int() != 9 || second.Get("names").Exists() || second.Get("mac").Exists() {
		t.Errorf("unexpected truncated record %s", lines[1])
	}
	if id := first.Get("scan_id").String(); id == "" || id != second.Get("scan_id").String() {
		t.Errorf("scan ids differ: %q, %q", id, second.Get("scan_id").String())
	}
}

func TestColors(t *testing.T) {
	got := render(t, &Config{Quiet: true}, testRecord(t))
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI colours in %q", got)
	}
	if !strings.Contains(got, "192.168.1.5      ") {
		t.Errorf("padding lost under colour in %q", got)
	}
}

func TestModeFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   Flags
		want    Mode
		wantErr bool
	}{
		{name: "none", want: Table},
		{name: "verbose", flags: Flags{Verbose: true}, want: Verbose},
		{name: "dump", flags: Flags{Dump: true}, want: Dump},
		{name: "hosts", flags: Flags{Hosts: true}, want: Hosts},
		{name: "lmhosts", flags: Flags{LMHosts: true}, want: LMHosts},
		{name: "json", flags: Flags{JSON: true}, want: JSON},
		{name: "dump and verbose", flags: Flags{Dump: true, Verbose: true}, wantErr: true},
		{name: "hosts and lmhosts", flags: Flags{Hosts: true, LMHosts: true}, wantErr: true},
		{name: "json and verbose", flags: Flags{JSON: true, Verbose: true}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ModeFromFlags(tt.flags)
			if tt.wantErr {
				if !errors.Is(err, ErrIncompatibleOptions) {
					t.Fatalf("ModeFromFlags() error = %v, want %v", err, ErrIncompatibleOptions)
				}
				return
			}
			if err != nil {
				t.Fatalf("ModeFromFlags() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ModeFromFlags() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "table", cfg: Config{}},
		{name: "table separator", cfg: Config{Separator: ","}},
		{name: "verbose separator human", cfg: Config{Mode: Verbose, Separator: ",", HumanReadable: true}},
		{name: "dump separator", cfg: Config{Mode: Dump, Separator: ","}, wantErr: true},
		{name: "hosts separator", cfg: Config{Mode: Hosts, Separator: ","}, wantErr: true},
		{name: "json separator", cfg: Config{Mode: JSON, Separator: ","}, wantErr: true},
		{name: "human without verbose", cfg: Config{HumanReadable: true}, wantErr: true},
		{name: "dump human", cfg: Config{Mode: Dump, HumanReadable: true}, wantErr: true},
		{name: "unknown mode", cfg: Config{Mode: Mode(42)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrIncompatibleOptions) {
				t.Errorf("Validate() error = %v does not wrap %v", err, ErrIncompatibleOptions)
			}
		})
	}
}
