package metrics

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

type call struct {
	kind   string // "counter" or "histogram"
	name   string
	value  float64
	labels Labels
}

// recorder keeps every backend call in order. Tests that install it must not
// run in parallel: the backend is global.
type recorder struct {
	calls   []call
	flushes int
	err     error
}

func (r *recorder) IncCounter(name string, delta float64, l Labels) {
	r.calls = append(r.calls, call{"counter", name, delta, l})
}

func (r *recorder) ObserveHistogram(name string, v float64, l Labels) {
	r.calls = append(r.calls, call{"histogram", name, v, l})
}

func (r *recorder) Flush() error { r.flushes++; return r.err }

func install(t *testing.T) *recorder {
	t.Helper()
	r := &recorder{}
	SetBackend(r)
	t.Cleanup(Reset)
	return r
}

func TestRecordStep(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		d      time.Duration
		status string
	}{
		{name: "success", d: 2 * time.Second, status: "success"},
		{name: "failure", err: errors.New("boom"), d: 1500 * time.Millisecond, status: "failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := install(t)
			RecordStep("carviz", "export", tt.err, tt.d)

			want := Labels{"job": "carviz", "step": "export", "status": tt.status}
			if len(r.calls) != 2 {
				t.Fatalf("calls=%d want 2", len(r.calls))
			}
			c, h := r.calls[0], r.calls[1]
			if c.kind != "counter" || c.name != StepTotal || c.value != 1 || !reflect.DeepEqual(c.labels, want) {
				t.Errorf("counter=%+v", c)
			}
			if h.kind != "histogram" || h.name != StepDuration || !reflect.DeepEqual(h.labels, want) {
				t.Errorf("histogram=%+v", h)
			}
			if math.Abs(h.value-tt.d.Seconds()) > 1e-9 {
				t.Errorf("seconds=%v want %v", h.value, tt.d.Seconds())
			}
		})
	}
}

func TestRecordRow(t *testing.T) {
	r := install(t)
	RecordRow("carviz", "processed", 3)
	RecordRow("carviz", "skipped", 0)
	RecordRow("carviz", "skipped", -2)
	RecordRow("carviz", "coerced_null", 5)

	want := []call{
		{"counter", RowsTotal, 3, Labels{"job": "carviz", "kind": "processed"}},
		{"counter", RowsTotal, 5, Labels{"job": "carviz", "kind": "coerced_null"}},
	}
	if !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls=%+v\nwant %+v", r.calls, want)
	}
}

func TestRecordArtifacts(t *testing.T) {
	r := install(t)
	RecordArtifacts("carviz", 6)
	RecordArtifacts("carviz", 0)

	want := []call{{"counter", ArtifactTotal, 6, Labels{"job": "carviz"}}}
	if !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls=%+v", r.calls)
	}
}

func TestFlushPropagatesError(t *testing.T) {
	r := install(t)
	r.err = errors.New("gateway down")
	if err := Flush(); !errors.Is(err, r.err) {
		t.Fatalf("Flush err=%v", err)
	}
	if r.flushes != 1 {
		t.Fatalf("flushes=%d", r.flushes)
	}
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	r := install(t)
	SetBackend(nil)
	if backend != Backend(r) {
		t.Fatalf("backend=%T", backend)
	}
}

func TestReset(t *testing.T) {
	install(t)
	Reset()
	if _, ok := backend.(nopBackend); !ok {
		t.Fatalf("backend=%T want nopBackend", backend)
	}
	// The nop backend accepts everything.
	RecordStep("carviz", "load", nil, time.Millisecond)
	if err := Flush(); err != nil {
		t.Fatal(err)
	}
}
