package engine

import (
	"strings"
	"testing"
	"time"
)

// A representative block of ffmpeg's -progress output.
const progressBlock = `frame=240
fps=58.96
stream_0_0_q=28.0
bitrate=1279.4kbits/s
total_size=1598361
out_time_us=9984000
out_time_ms=9984000
out_time=00:00:09.984000
dup_frames=0
drop_frames=0
speed=2.46x
progress=continue
`

func TestParseProgressBlock(t *testing.T) {
	var p ProgressParser
	var event ProgressEvent
	emitted := 0
	for _, line := range strings.Split(progressBlock, "\n") {
		if ev, ok := p.ParseLine(line); ok {
			event = ev
			emitted++
		}
	}

	if emitted != 1 {
		t.Fatalf("Expected one event per block, got %d", emitted)
	}
	if event.End {
		t.Error("progress=continue should not mark the end")
	}
	if event.Fps != 58.96 {
		t.Errorf("Expected fps 58.96, got %v", event.Fps)
	}
	if event.Kbps != 1279.4 {
		t.Errorf("Expected 1279.4 kbps, got %v", event.Kbps)
	}
	if event.OutTime != 9984*time.Millisecond {
		t.Errorf("Expected out time 9.984s, got %v", event.OutTime)
	}
}

func TestParseEndBlock(t *testing.T) {
	var p ProgressParser
	p.ParseLine("out_time_us=30000000")
	event, ok := p.ParseLine("progress=end")
	if !ok {
		t.Fatal("progress=end should emit an event")
	}
	if !event.End {
		t.Error("Expected End to be set")
	}
	if event.OutTime != 30*time.Second {
		t.Errorf("Expected 30s out time, got %v", event.OutTime)
	}
}

func TestGarbledLinesAreSkipped(t *testing.T) {
	var p ProgressParser
	lines := []string{
		"fps=24.0",
		"this is not a key value line",
		"bitrate=N/A",
		"out_time_us=garbage",
		"fps=",
		"progress=continue",
	}
	var event ProgressEvent
	var ok bool
	for _, line := range lines {
		if ev, emitted := p.ParseLine(line); emitted {
			event, ok = ev, true
		}
	}
	if !ok {
		t.Fatal("Block terminator should still emit")
	}
	// Garbled values leave last-known state untouched
	if event.Fps != 24.0 {
		t.Errorf("Expected fps 24.0, got %v", event.Fps)
	}
	if event.Kbps != 0 || event.OutTime != 0 {
		t.Errorf("Unparseable values should stay zero: %+v", event)
	}
}

func TestLastKnownValuesCarryBetweenBlocks(t *testing.T) {
	var p ProgressParser
	p.ParseLine("fps=30.0")
	p.ParseLine("out_time_us=1000000")
	p.ParseLine("progress=continue")

	// Next block only updates out_time; fps carries over
	p.ParseLine("out_time_us=2000000")
	event, ok := p.ParseLine("progress=continue")
	if !ok {
		t.Fatal("Expected an event")
	}
	if event.Fps != 30.0 {
		t.Errorf("fps should carry between blocks, got %v", event.Fps)
	}
	if event.OutTime != 2*time.Second {
		t.Errorf("Expected 2s, got %v", event.OutTime)
	}
}

func TestParseClockTimeFallback(t *testing.T) {
	var p ProgressParser
	p.ParseLine("out_time=00:01:30.500000")
	event, _ := p.ParseLine("progress=continue")
	want := time.Minute + 30*time.Second + 500*time.Millisecond
	if event.OutTime != want {
		t.Errorf("Expected %v, got %v", want, event.OutTime)
	}

	if _, ok := parseClockTime("nonsense"); ok {
		t.Error("parseClockTime accepted garbage")
	}
	if _, ok := parseClockTime("1:2"); ok {
		t.Error("parseClockTime accepted two-part timestamp")
	}
}
