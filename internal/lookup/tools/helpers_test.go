package tools

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"testing"
)

// fakeWHOIS answers port-43 style queries from a fixed table. Unknown queries
// get an empty reply.
type fakeWHOIS struct {
	ln        net.Listener
	responses map[string]string

	mu      sync.Mutex
	queries []string
}

func startFakeWHOIS(t *testing.T, responses map[string]string) *fakeWHOIS {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	srv := &fakeWHOIS{ln: ln, responses: responses}
	go srv.serve()
	t.Cleanup(func() { ln.Close() })
	return srv
}

func (s *fakeWHOIS) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go func(conn net.Conn) {
			defer conn.Close()
			line, err := bufio.NewReader(conn).ReadString('\n')
			if err != nil {
				return
			}
			query := strings.TrimRight(line, "\r\n")

			s.mu.Lock()
			s.queries = append(s.queries, query)
			s.mu.Unlock()

			_, _ = conn.Write([]byte(s.responses[query]))
		}(conn)
	}
}

func (s *fakeWHOIS) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// redirectDialer sends every connection to one local address and records the
// address that was asked for.
type redirectDialer struct {
	target string

	mu        sync.Mutex
	requested []string
}

func (d *redirectDialer) Dial(network, addr string) (net.Conn, error) {
	d.mu.Lock()
	d.requested = append(d.requested, addr)
	d.mu.Unlock()
	return net.Dial(network, d.target)
}

func (d *redirectDialer) Requested() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.requested...)
}

// silentListener accepts connections and never writes to them.
func silentListener(t *testing.T) net.Listener {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()

	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})
	return ln
}
