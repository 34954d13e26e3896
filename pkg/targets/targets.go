package targets

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/projectdiscovery/mapcidr"
)

// ErrInvalidTarget is returned for a specification that cannot be parsed.
var ErrInvalidTarget = errors.New("invalid target")

// Iterator yields target addresses in host byte order.
type Iterator interface {
	// Next returns the next address and false once the sequence is exhausted.
	Next() (uint32, bool)
	// Reset rewinds the iterator to its first address.
	Reset()
}

// Source is a parsed, reusable target specification.
type Source interface {
	// Iterator returns a new iterator positioned at the first address.
	Iterator() Iterator
	// Count returns the number of addresses the source yields.
	Count() uint64
	String() string
}

// ToIP converts a host order address into a net.IP.
func ToIP(addr uint32) net.IP {
	ip := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(ip, addr)
	return ip
}

// FromIP converts an IPv4 address into host order. It returns false for
// addresses that are not IPv4.
func FromIP(ip net.IP) (uint32, bool) {
	ip4 := ip.To4()
	if ip4 == nil {
		return 0, false
	}
	return binary.BigEndian.Uint32(ip4), true
}

// Parse parses a single target specification.
func Parse(expr string) (Source, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty specification", ErrInvalidTarget)
	}

	switch {
	case strings.Contains(expr, "/"):
		return parseCIDR(expr)
	case strings.Contains(expr, "-"):
		return parseRange(expr)
	default:
		addr, err := parseAddr(expr)
		if err != nil {
			return nil, err
		}
		return &rangeSource{first: addr, last: addr, expr: expr}, nil
	}
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Source {
	source, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return source
}

func parseAddr(s string) (uint32, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return 0, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidTarget, s)
	}
	addr, ok := FromIP(ip)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidTarget, s)
	}
	return addr, nil
}

func parseCIDR(expr string) (Source, error) {
	ip, network, err := net.ParseCIDR(expr)
	if err != nil || ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q is not an IPv4 CIDR block", ErrInvalidTarget, expr)
	}
	first, last, err := mapcidr.AddressRange(network)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTarget, expr, err)
	}
	start, _ := FromIP(first)
	end, _ := FromIP(last)
	return &rangeSource{first: start, last: end, expr: expr}, nil
}

func parseRange(expr string) (Source, error) {
	from, to, _ := strings.Cut(expr, "-")
	first, err := parseAddr(strings.TrimSpace(from))
	if err != nil {
		return nil, err
	}
	to = strings.TrimSpace(to)

	var last uint32
	if strings.Contains(to, ".") {
		if last, err = parseAddr(to); err != nil {
			return nil, err
		}
	} else {
		octet, err := strconv.ParseUint(to, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: range end must be an octet or an address", ErrInvalidTarget, expr)
		}
		last = first&^0xff | uint32(octet)
	}
	if last < first {
		return nil, fmt.Errorf("%w: %q: range end is below its start", ErrInvalidTarget, expr)
	}
	return &rangeSource{first: first, last: last, expr: expr}, nil
}

// rangeSource is an inclusive run of consecutive addresses.
type rangeSource struct {
	first, last uint32
	expr        string
}

func (r *rangeSource) Iterator() Iterator {
	return &rangeIterator{first: r.first, last: r.last, next: uint64(r.first)}
}

func (r *rangeSource) Count() uint64 {
	return uint64(r.last) - uint64(r.first) + 1
}

func (r *rangeSource) String() string {
	return r.expr
}

type rangeIterator struct {
	first, last uint32
	// next is wider than an address so the iterator can step past
	// 255.255.255.255 without wrapping.
	next uint64
}

func (it *rangeIterator) Next() (uint32, bool) {
	if it.next > uint64(it.last) {
		return 0, false
	}
	addr := uint32(it.next)
	it.next++
	return addr, true
}

func (it *rangeIterator) Reset() {
	it.next = uint64(it.first)
}
