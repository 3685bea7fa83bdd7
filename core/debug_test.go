package core

import (
	"strings"
	"testing"
)

func TestDebugPrintlnGating(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(nil)
	defer SetDebugEnabled(false)

	SetDebugEnabled(false)
	DebugPrintln("hidden")
	if len(lines) != 0 {
		t.Errorf("disabled debug output wrote %v", lines)
	}

	SetDebugEnabled(true)
	if !IsDebugEnabled() {
		t.Error("IsDebugEnabled should report true")
	}
	DebugPrintln("shown")
	if len(lines) != 1 || lines[0] != "shown" {
		t.Errorf("expected [shown], got %v", lines)
	}
}

func TestEventRingWraps(t *testing.T) {
	ClearEventRing()
	for i := 0; i < EventRingSize+5; i++ {
		RecordEvent(EvtLevelSet, uint32(i))
	}

	events := Events()
	if len(events) != EventRingSize {
		t.Fatalf("expected %d events, got %d", EventRingSize, len(events))
	}
	if events[0].Value != 5 || events[len(events)-1].Value != EventRingSize+4 {
		t.Errorf("ring kept %d..%d, want 5..%d", events[0].Value, events[len(events)-1].Value, EventRingSize+4)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Seq <= events[i-1].Seq {
			t.Fatalf("events out of order at %d", i)
		}
	}
}

func TestDumpEventRing(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(nil)

	ClearEventRing()
	RecordEvent(EvtTransfer, 0x3000)
	DumpEventRing()

	if len(lines) != 3 {
		t.Fatalf("expected header, one event and footer, got %v", lines)
	}
	if !strings.Contains(lines[1], "TRANSFER") || !strings.Contains(lines[1], "value=0x3000") {
		t.Errorf("unexpected event line %q", lines[1])
	}
}

func TestStrUtil(t *testing.T) {
	if utoa(0) != "0" || utoa(4294967295) != "4294967295" {
		t.Errorf("utoa gave %q and %q", utoa(0), utoa(4294967295))
	}
	if hex32(0) != "0x0" || hex32(0x3000) != "0x3000" || hex32(0xdeadbeef) != "0xdeadbeef" {
		t.Errorf("hex32 gave %q %q %q", hex32(0), hex32(0x3000), hex32(0xdeadbeef))
	}
}
