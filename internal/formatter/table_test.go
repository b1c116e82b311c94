package formatter

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable_BasicOutput(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "MODEL", "STEPS", "REWARD")
	tbl.AddRow("vision", "30", "0.5")
	tbl.AddRow("audio", "25", "0.1")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"MODEL", "STEPS", "REWARD", "----", "vision", "audio"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
}

func TestTable_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "A", "B")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty output for table with no rows, got:\n%s", buf.String())
	}
}

func TestTable_Truncate(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		value   string
		want    string
		notWant string
	}{
		{name: "ellipsis", max: 8, value: "abcdefghijklmnop", want: "abcde...", notWant: "abcdefghijklmnop"},
		{name: "short limit slices", max: 2, value: "abcdef", want: "ab", notWant: "..."},
		{name: "exactly at max", max: 5, value: "abcde", want: "abcde", notWant: "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tbl := NewTable(&buf, "ID", "VALUE")
			tbl.SetMaxWidth(0, tt.max)
			tbl.AddRow(tt.value, "ok")
			if err := tbl.Render(); err != nil {
				t.Fatalf("Render: %v", err)
			}
			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, out)
			}
			if strings.Contains(out, tt.notWant) {
				t.Errorf("unexpected %q in output:\n%s", tt.notWant, out)
			}
		})
	}
}

func TestTable_MissingValues(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "A", "B", "C")
	tbl.AddRow("only-one")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "only-one") {
		t.Errorf("expected value in output:\n%s", buf.String())
	}
}

func TestTable_SeparatorMatchesHeaderLength(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "SHORT", "LONGHEADER")
	tbl.AddRow("x", "y")
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected at least 2 lines, got %d", len(lines))
	}
	sepFields := strings.Fields(lines[1])
	if len(sepFields) != 2 || sepFields[0] != "-----" || sepFields[1] != "----------" {
		t.Errorf("separator = %q, want dashes matching headers", lines[1])
	}
}

func TestTable_AddFloatRow(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "feature", "goal", "vote").SetPrecision(2)
	tbl.AddFloatRow("3", 0.126, 1)
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	fields := strings.Fields(lines[len(lines)-1])
	want := []string{"3", "0.13", "1.00"}
	if strings.Join(fields, " ") != strings.Join(want, " ") {
		t.Errorf("row = %v, want %v", fields, want)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		v         float64
		precision int
		want      string
	}{
		{v: 0.5, precision: 3, want: "0.500"},
		{v: 0.5, precision: -1, want: "0.5"},
		{v: 1e-9, precision: 4, want: "0.0000"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.v, tt.precision); got != tt.want {
			t.Errorf("FormatFloat(%v, %d) = %q, want %q", tt.v, tt.precision, got, tt.want)
		}
	}
}

func BenchmarkTableRender(b *testing.B) {
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		tbl := NewTable(&buf, "feature", "goal", "vote")
		for j := 0; j < 10; j++ {
			tbl.AddFloatRow("f", 0.25, 0.75)
		}
		_ = tbl.Render()
	}
}
