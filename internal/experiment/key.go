package experiment

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrBadName         = errors.New("document name does not match flow_<protocol>_<mobility>_<clients>")
	ErrUnknownProtocol = errors.New("unknown protocol")
	ErrUnknownMobility = errors.New("unknown mobility")
)

type Protocol string

const (
	UDP   Protocol = "udp"
	TCP   Protocol = "tcp"
	Mixed Protocol = "mixed"
)

// Protocols lists the transport mixes in chart order.
func Protocols() []Protocol { return []Protocol{UDP, TCP, Mixed} }

func ParseProtocol(s string) (Protocol, error) {
	switch p := Protocol(strings.ToLower(s)); p {
	case UDP, TCP, Mixed:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
}

func (p Protocol) Label() string {
	switch p {
	case UDP:
		return "UDP"
	case TCP:
		return "TCP"
	case Mixed:
		return "UDP+TCP"
	}
	return string(p)
}

type Mobility string

const (
	Static Mobility = "static"
	Mobile Mobility = "mobile"
)

// Mobilities lists the mobility modes in chart order.
func Mobilities() []Mobility { return []Mobility{Static, Mobile} }

func ParseMobility(s string) (Mobility, error) {
	switch m := Mobility(strings.ToLower(s)); m {
	case Static, Mobile:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMobility, s)
}

func (m Mobility) Label() string {
	switch m {
	case Static:
		return "Static"
	case Mobile:
		return "Mobile"
	}
	return string(m)
}

// Key locates one simulation run in the experiment space.
type Key struct {
	Protocol Protocol
	Mobility Mobility
	Clients  int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Protocol, k.Mobility, k.Clients)
}

// ParseKey derives the key from a document path named flow_<protocol>_<mobility>_<clients>.<ext>.
// Directory and extension are ignored, as are parts after the client count.
func ParseKey(path string) (Key, error) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.TrimPrefix(name, "flow_")

	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return Key{}, fmt.Errorf("%w: %q", ErrBadName, base)
	}

	clients, err := strconv.Atoi(parts[2])
	if err != nil || clients < 1 {
		return Key{}, fmt.Errorf("%w: %q: client count %q", ErrBadName, base, parts[2])
	}

	proto, err := ParseProtocol(parts[0])
	if err != nil {
		return Key{}, fmt.Errorf("%q: %w", base, err)
	}
	mob, err := ParseMobility(parts[1])
	if err != nil {
		return Key{}, fmt.Errorf("%q: %w", base, err)
	}

	return Key{Protocol: proto, Mobility: mob, Clients: clients}, nil
}
