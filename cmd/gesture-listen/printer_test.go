package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinter_Gestures(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, nil, false)

	p.handle([]byte(`{"type":"move","ts":"2026-01-01T00:00:00Z","data":{"vector":{"x":1.5,"y":-2,"time":16}}}`))
	p.handle([]byte(`{"type":"rotate","data":{"angle":1.5707963267948966,"center":{"x":10,"y":20}}}`))
	p.handle([]byte(`{"type":"changeEnd"}`))

	want := "[MOVE] dx=1.50 dy=-2.00 dt=16ms\n" +
		"[ROTATE] 90.0 deg at (10.0,20.0)\n" +
		"[CHANGE_END]\n"
	if got := buf.String(); got != want {
		t.Fatalf("output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrinter_TransformDedup(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, nil, false)

	p.handle([]byte(`{"type":"state_init","data":{"css":"matrix(1,0,0,1,0,0)","pan_policy":"frames","scale_mode":"smooth","wheel_mode":"ratio"}}`))
	p.handle([]byte(`{"type":"transform","data":{"css":"matrix(1,0,0,1,0,0)"}}`))
	p.handle([]byte(`{"type":"transform","data":{"css":"matrix(1,0,0,1,5,0)"}}`))
	p.handle([]byte(`{"type":"transform","data":{"css":"matrix(1,0,0,1,5,0)"}}`))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q, want init + one transform", lines)
	}
	if !strings.HasPrefix(lines[0], "[INIT] matrix(1,0,0,1,0,0) pressed=false") {
		t.Fatalf("init line = %q", lines[0])
	}
	if lines[1] != "[TRANSFORM] matrix(1,0,0,1,5,0)" {
		t.Fatalf("transform line = %q", lines[1])
	}
}

func TestPrinter_FilterAndRaw(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, splitTypes(" changeEnd , "), true)

	p.handle([]byte(`{"type":"move","data":{"vector":{"x":1,"y":0,"time":16}}}`))
	p.handle([]byte(`{"type":"changeEnd"}`))

	if got := buf.String(); got != "{\"type\":\"changeEnd\"}\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestPrinter_Garbage(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, nil, false)

	p.handle([]byte(`hello`))
	p.handle([]byte(`{"type":"volume_changed"}`))

	want := "[TEXT] hello\n[TEXT] {\"type\":\"volume_changed\"}\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestSplitTypes(t *testing.T) {
	if splitTypes("  ") != nil {
		t.Fatalf("blank filter should be nil")
	}
	got := splitTypes("move, scale")
	if len(got) != 2 || !got["move"] || !got["scale"] {
		t.Fatalf("splitTypes = %v", got)
	}
}
