package level

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		keyword string
		want    Level
		ok      bool
	}{
		{"no", No, true},
		{"trace", Trace, true},
		{"debug", Debug, true},
		{"info", Info, true},
		{"warn", Warn, true},
		{"error", Error, true},
		{"Warn", 0, false},
		{"WARN", 0, false},
		{"loud", 0, false},
		{"warning", 0, false},
		{"", 0, false},
		{" warn", 0, false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.keyword)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Parse(%q) = %v, %v; want %v, %v", tt.keyword, got, ok, tt.want, tt.ok)
		}
	}
}

func TestKeywords_CoversVocabulary(t *testing.T) {
	kws := Keywords()
	if len(kws) != len(keywords) {
		t.Fatalf("Keywords() lists %d entries, map has %d", len(kws), len(keywords))
	}
	for _, kw := range kws {
		if _, ok := Parse(kw); !ok {
			t.Errorf("Keywords() entry %q does not parse", kw)
		}
	}
}

func TestLevel_GoName(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{No, "No"},
		{Trace, "Trace"},
		{Debug, "Debug"},
		{Info, "Info"},
		{Warn, "Warn"},
		{Error, "Error"},
	}
	for _, tt := range tests {
		if got := tt.level.GoName(); got != tt.want {
			t.Errorf("GoName(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevel_GoReturn(t *testing.T) {
	if got := No.GoReturn("errlevel"); got != "0, false" {
		t.Errorf("No.GoReturn = %q", got)
	}
	if got := Warn.GoReturn("errlevel"); got != "errlevel.Warn, true" {
		t.Errorf("Warn.GoReturn = %q", got)
	}
	if got := Error.GoReturn("rt"); got != "rt.Error, true" {
		t.Errorf("Error.GoReturn = %q", got)
	}
}
