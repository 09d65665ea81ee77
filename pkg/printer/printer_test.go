package printer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
)

func TestColumnsPadsToWidth(t *testing.T) {
	doc := NewDocument(20)
	doc.Columns("Total:", "150.00")
	doc.Columns("Žaneta Novák Ltd and sons", "1.00")

	lines := strings.Split(string(doc.Bytes()[2:]), "\n")
	if lines[0] != "Total:        150.00" {
		t.Errorf("line = %q", lines[0])
	}
	if got := []rune(lines[1]); len(got) != 20 || !strings.HasSuffix(lines[1], " 1.00") {
		t.Errorf("long line = %q (%d runes)", lines[1], len(got))
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"thank you for your business", []string{"thank you", "for your", "business"}},
		{"supercalifragilistic", []string{"supercalif", "ragilistic"}},
	}
	for _, tt := range tests {
		got := wrap(tt.in, 10)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("wrap(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewValidatesConfig(t *testing.T) {
	for _, cfg := range []Config{{Type: "usb"}, {Type: "network"}, {Type: "bluetooth"}} {
		if _, err := New(cfg); err == nil {
			t.Errorf("New(%+v) should fail", cfg)
		}
	}

	p, err := New(Config{Type: "none"})
	if err != nil {
		t.Fatalf("New(none): %v", err)
	}
	if err := p.Print(context.Background(), []byte("x")); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("null printer Print = %v", err)
	}
}

func TestNetworkPrinterSendsJob(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	p, err := New(Config{Type: "network", Address: ln.Addr().String()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	job := NewDocument(Width58mm).Text("hello").PartialCut().Bytes()
	if err := p.Print(context.Background(), job); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if got := <-received; !bytes.Equal(got, job) {
		t.Errorf("printer received %q, want %q", got, job)
	}
}
