package experiment

import (
	"errors"
	"testing"
)

func TestParseKey(t *testing.T) {
	cases := []struct {
		path string
		want Key
	}{
		{"flow_udp_static_8.xml", Key{UDP, Static, 8}},
		{"/data/results/flow_tcp_mobile_16.xml", Key{TCP, Mobile, 16}},
		{"results/flow_mixed_static_32", Key{Mixed, Static, 32}},
		{"flow_UDP_Mobile_1.xml", Key{UDP, Mobile, 1}},
		{"flow_tcp_static_4_rerun.xml", Key{TCP, Static, 4}},
	}
	for _, c := range cases {
		got, err := ParseKey(c.path)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", c.path, err)
		}
		if got != c.want {
			t.Fatalf("ParseKey(%q) = %+v, want %+v", c.path, got, c.want)
		}
	}
}

func TestParseKeyErrors(t *testing.T) {
	cases := []struct {
		path string
		want error
	}{
		{"flow_udp_static.xml", ErrBadName},
		{"results.xml", ErrBadName},
		{"flow_udp_static_many.xml", ErrBadName},
		{"flow_udp_static_0.xml", ErrBadName},
		{"flow_udp_static_-2.xml", ErrBadName},
		{"flow_quic_static_8.xml", ErrUnknownProtocol},
		{"flow_udp_flying_8.xml", ErrUnknownMobility},
	}
	for _, c := range cases {
		_, err := ParseKey(c.path)
		if !errors.Is(err, c.want) {
			t.Fatalf("ParseKey(%q) error = %v, want %v", c.path, err, c.want)
		}
	}
}

func TestLabels(t *testing.T) {
	if Mixed.Label() != "UDP+TCP" || TCP.Label() != "TCP" || UDP.Label() != "UDP" {
		t.Fatalf("unexpected protocol labels")
	}
	if Static.Label() != "Static" || Mobile.Label() != "Mobile" {
		t.Fatalf("unexpected mobility labels")
	}
	if k := (Key{UDP, Static, 8}); k.String() != "udp/static/8" {
		t.Fatalf("key string = %q", k.String())
	}
}
