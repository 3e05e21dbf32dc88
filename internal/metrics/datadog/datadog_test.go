package datadog

import (
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"carviz/internal/metrics"
)

func TestNewBackend_RequiresAddr(t *testing.T) {
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("expected error for empty Addr")
	}
}

func TestLabelsToTags(t *testing.T) {
	got := labelsToTags(metrics.Labels{"step": "export", "job": "carviz", "status": "success"})
	want := []string{"job:carviz", "status:success", "step:export"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tags=%v want %v", got, want)
	}
	if labelsToTags(nil) != nil {
		t.Fatalf("nil labels should give nil tags")
	}
}

func TestBackend_SendsOverUDP(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("udp not available: %v", err)
	}
	defer conn.Close()

	b, err := NewBackend(Config{Addr: conn.LocalAddr().String()})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.RowsTotal, 3, metrics.Labels{"kind": "processed"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read datagram: %v", err)
	}
	got := string(buf[:n])
	if !strings.Contains(got, "carviz.carviz_rows_total:3|c") || !strings.Contains(got, "kind:processed") {
		t.Fatalf("datagram=%q", got)
	}
}

func TestZeroBackendIsSafe(t *testing.T) {
	b := &Backend{}
	b.IncCounter(metrics.StepTotal, 1, nil)
	b.ObserveHistogram(metrics.StepDuration, 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}
