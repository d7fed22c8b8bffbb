package components

import (
	"strings"
	"testing"
)

func TestCalculateColumnWidths(t *testing.T) {
	tests := []struct {
		name  string
		specs []ColumnSpec
		width int
		want  []int
	}{
		{
			name:  "all fixed fit",
			specs: []ColumnSpec{{Fixed: 10, Priority: 3}, {Fixed: 15, Priority: 2}, {Fixed: 20, Priority: 1}},
			width: 100,
			want:  []int{10, 15, 20},
		},
		{
			name:  "drops low priority",
			specs: []ColumnSpec{{Fixed: 20, Priority: 1}, {Fixed: 20, Priority: 3}, {Fixed: 20, Priority: 2}},
			width: 50,
			want:  []int{0, 20, 20},
		},
		{
			name:  "very narrow keeps one column",
			specs: []ColumnSpec{{Fixed: 20, Priority: 2}, {Fixed: 20, Priority: 1}},
			width: 5,
			want:  []int{20, 0},
		},
		{
			name:  "weight without spare width gets the minimum",
			specs: []ColumnSpec{{Fixed: 10, Priority: 2}, {MinWidth: 6, Weight: 1, Priority: 1}},
			width: 21,
			want:  []int{10, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateColumnWidths(tt.specs, tt.width, 3)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("CalculateColumnWidths() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestCalculateColumnWidths_Proportional(t *testing.T) {
	specs := []ColumnSpec{
		{Fixed: 10, Priority: 3},
		{Weight: 1, MinWidth: 5, Priority: 2},
		{Weight: 2, MinWidth: 5, Priority: 1},
	}

	widths := CalculateColumnWidths(specs, 100, 3)
	if widths[0] != 10 {
		t.Errorf("widths[0] = %d, want 10", widths[0])
	}
	ratio := float64(widths[2]) / float64(widths[1])
	if ratio < 1.5 || ratio > 2.5 {
		t.Errorf("ratio = %.2f, want ~2 (widths %v)", ratio, widths)
	}
	if sum := widths[0] + widths[1] + widths[2] + 6 + 2; sum > 100 {
		t.Errorf("columns overflow: total %d", sum)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Moss", 10, "Moss"},
		{"Heatherbrae Moss", 8, "Heather…"},
		{"Moss", 0, ""},
		{"Moss", 1, "M"},
		{"Glenrothes Ábhar", 12, "Glenrothes …"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPadding(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight() = %q", got)
	}
	if got := PadLeft("ab", 4); got != "  ab" {
		t.Errorf("PadLeft() = %q", got)
	}
	if got := PadRight("abcdef", 4); got != "abcdef" {
		t.Errorf("PadRight() shortened its input: %q", got)
	}
}

func TestSideBySide(t *testing.T) {
	left := "SIRE\nMoss"
	right := "DAM\nFern"

	horizontal := SideBySide(left, right, 40, 4)
	lines := strings.Split(horizontal, "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "SIRE") || !strings.Contains(lines[0], "DAM") {
		t.Errorf("SideBySide() wide = %q, want blocks on shared lines", horizontal)
	}

	vertical := SideBySide(left, right, 8, 4)
	if !strings.Contains(vertical, "Moss\n\nDAM") {
		t.Errorf("SideBySide() narrow = %q, want stacked blocks", vertical)
	}
}

func TestGauge(t *testing.T) {
	styles := DefaultStyles()

	empty := Gauge(0, 0.125, 12, styles)
	if !strings.Contains(empty, "[░░░░░░░░░░]") {
		t.Errorf("Gauge(0) = %q", empty)
	}

	full := Gauge(0.5, 0.125, 12, styles)
	if !strings.Contains(full, "[██████████]") {
		t.Errorf("Gauge above limit = %q, want a full bar", full)
	}

	half := Gauge(0.0625, 0.125, 12, styles)
	if strings.Count(half, "█") != 5 {
		t.Errorf("Gauge(half) = %q, want 5 filled cells", half)
	}
}
