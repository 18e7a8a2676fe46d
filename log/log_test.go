package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestModuleByName(t *testing.T) {
	for _, name := range ModuleNames() {
		mod, ok := ModuleByName(name)
		if !ok {
			t.Fatalf("ModuleByName(%q) not found", name)
		}
		if mod.String() != name {
			t.Errorf("ModuleByName(%q).String() = %q", name, mod.String())
		}
	}

	if _, ok := ModuleByName("<error>"); ok {
		t.Errorf("ModuleByName(<error>) should not be found")
	}
	if _, ok := ModuleByName("foo"); ok {
		t.Errorf("ModuleByName(foo) should not be found")
	}
}

func TestDisabledModuleReturnsNilEntry(t *testing.T) {
	DisableDebugModules(ModuleMaskAll)

	if e := ModSeq.DebugZ("tick"); e != nil {
		t.Fatalf("DebugZ on disabled module = %v, want nil", e)
	}

	// Chaining on nil entries must not panic.
	ModSeq.DebugZ("tick").Uint32("tick", 3).Hex8("reg", 0xb0).End()
}

func TestEntryZOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		DisableDebugModules(ModuleMaskAll)
	})

	EnableDebugModules(ModSynth.Mask())
	ModSynth.DebugZ("write reg").
		Hex8("reg", 0xb0).
		Uint8("val", 0x31).
		Error("err", errors.New("boom")).
		End()

	out := buf.String()
	for _, want := range []string{"write reg", "_mod=synth", "reg=b0", "val=49", "err=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q doesn't contain %q", out, want)
		}
	}
}

type testVariant int

func (v testVariant) String() string { return "WholeFile" }

func TestZFieldValues(t *testing.T) {
	tests := []struct {
		field ZField
		want  string
	}{
		{ZField{Type: FieldTypeBool, Boolean: true}, "true"},
		{ZField{Type: FieldTypeHex8, Integer: 0xb}, "0b"},
		{ZField{Type: FieldTypeHex16, Integer: 0x198}, "0198"},
		{ZField{Type: FieldTypeInt, Integer: uint64(0xFFFFFFFFFFFFFFFF)}, "-1"},
		{ZField{Type: FieldTypeUint, Integer: 49716}, "49716"},
		{ZField{Type: FieldTypeFloat, Float: 1.125}, "1.125"},
		{ZField{Type: FieldTypeError}, "<nil>"},
		{ZField{Type: FieldTypeDuration, Duration: 50 * time.Millisecond}, "50ms"},
		{ZField{Type: FieldTypeStringer, Interface: testVariant(0)}, "WholeFile"},
		{ZField{Type: FieldTypeBlob, Blob: []byte{0xbd, 0x20}}, "00000000  bd 20"},
	}
	for _, tt := range tests {
		if got := tt.field.Value(); !strings.HasPrefix(got, tt.want) {
			t.Errorf("Value() of type %d = %q, want %q", tt.field.Type, got, tt.want)
		}
	}
}

func TestWarnf(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	ModCLI.Warnf("invalid %s %q", "clock-rate", "fast")

	out := buf.String()
	for _, want := range []string{"level=warning", "_mod=cli", "invalid clock-rate"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q doesn't contain %q", out, want)
		}
	}
}
