package nbstat

import "strings"

type service struct {
	prefix  string
	code    byte
	unique  bool
	display string
}

// services maps well known (name, service code, uniqueness) combinations
// to a description. An empty prefix matches any name; entries are checked
// in order so specific names come first.
var services = []service{
	{"__MSBROWSE__", 0x01, false, "Master Browser"},
	{"INet~Services", 0x1C, false, "IIS"},
	{"IS~", 0x00, true, "IIS"},
	{"IRISMULTICAST", 0x2F, false, "Lotus Notes"},
	{"IRISNAMESERVER", 0x33, false, "Lotus Notes"},
	{"Forte_$ND800ZA", 0x20, true, "DCA IrmaLan Gateway Server Service"},
	{"", 0x00, true, "Workstation Service"},
	{"", 0x01, true, "Messenger Service"},
	{"", 0x03, true, "Messenger Service"},
	{"", 0x06, true, "RAS Server Service"},
	{"", 0x1F, true, "NetDDE Service"},
	{"", 0x20, true, "File Server Service"},
	{"", 0x21, true, "RAS Client Service"},
	{"", 0x22, true, "Microsoft Exchange Interchange(MSMail Connector)"},
	{"", 0x23, true, "Microsoft Exchange Store"},
	{"", 0x24, true, "Microsoft Exchange Directory"},
	{"", 0x2B, true, "Lotus Notes Server Service"},
	{"", 0x30, true, "Modem Sharing Server Service"},
	{"", 0x31, true, "Modem Sharing Client Service"},
	{"", 0x43, true, "SMS Clients Remote Control"},
	{"", 0x44, true, "SMS Administrators Remote Control Tool"},
	{"", 0x45, true, "SMS Clients Remote Chat"},
	{"", 0x46, true, "SMS Clients Remote Transfer"},
	{"", 0x4C, true, "DEC Pathworks TCPIP service on Windows NT"},
	{"", 0x52, true, "DEC Pathworks TCPIP service on Windows NT"},
	{"", 0x6A, true, "Microsoft Exchange IMC"},
	{"", 0x87, true, "Microsoft Exchange MTA"},
	{"", 0xBE, true, "Network Monitor Agent"},
	{"", 0xBF, true, "Network Monitor Application"},
	{"", 0x00, false, "Domain Name"},
	{"", 0x1B, true, "Domain Master Browser"},
	{"", 0x1C, false, "Domain Controllers"},
	{"", 0x1D, true, "Master Browser"},
	{"", 0x1E, false, "Browser Service Elections"},
}

// ServiceName returns a human readable description of a name table entry.
func ServiceName(code byte, unique bool, name string) string {
	for _, s := range services {
		if s.code != code || s.unique != unique {
			continue
		}
		if strings.HasPrefix(strings.TrimLeft(name, "\x01\x02"), s.prefix) {
			return s.display
		}
	}
	return "Unknown"
}

// Describe returns the service description for a name entry.
func (n NameEntry) Describe() string {
	return ServiceName(n.Service, n.Unique(), n.Name)
}
