package profile

import (
	"slices"
	"testing"
)

func TestMake_AppliesOptions(t *testing.T) {
	p := Make(WithMode("cpu"), WithPath("/tmp/streamscore"), WithQuiet(true))

	want := Profiler{Mode: "cpu", Path: "/tmp/streamscore", Quiet: true}
	if p != want {
		t.Errorf("expected %+v, got %+v", want, p)
	}
}

func TestProfiler_Start_NoMode(t *testing.T) {
	ctrl := Profiler{Path: t.TempDir()}.Start()

	if _, ok := ctrl.(ignore); !ok {
		t.Errorf("expected no-op controller, got %T", ctrl)
	}

	ctrl.Stop()
}

func TestProfiler_Start_UnknownMode(t *testing.T) {
	ctrl := Make(WithMode("bogus"), WithPath(t.TempDir())).Start()

	if _, ok := ctrl.(ignore); !ok {
		t.Errorf("expected no-op controller, got %T", ctrl)
	}

	ctrl.Stop()
}

func TestModes_ExcludesQuiet(t *testing.T) {
	if slices.Contains(Modes(), "quiet") {
		t.Error("quiet must not be reported as a mode")
	}
}
