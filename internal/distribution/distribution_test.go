package distribution

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/quanterra/framegen/internal/genome"
)

func testStore(t *testing.T) *genome.Store {
	t.Helper()
	dir := t.TempDir()
	nucPath := filepath.Join(dir, "nucleotides.txt")
	if err := os.WriteFile(nucPath, []byte("A 10,20\nC 30\n"), 0o644); err != nil {
		t.Fatalf("writing nucleotides: %v", err)
	}
	fragPath := filepath.Join(dir, "fragments.txt")
	if err := os.WriteFile(fragPath, []byte("short AC\nlong AACC\nlit 1,2,3\n"), 0o644); err != nil {
		t.Fatalf("writing fragments: %v", err)
	}

	s := genome.NewStore()
	if err := s.LoadNucleotides(nucPath); err != nil {
		t.Fatalf("LoadNucleotides: %v", err)
	}
	if err := s.LoadFragments(fragPath, 1); err != nil {
		t.Fatalf("LoadFragments: %v", err)
	}
	return s
}

func loadTable(t *testing.T, content string, cellsPerFrame int) (Table, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "distribution.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing distribution: %v", err)
	}
	return Load(path, testStore(t), cellsPerFrame)
}

func TestLoadRecords(t *testing.T) {
	table, err := loadTable(t, `
# comment line
1 $ short
5,9 $ long
10,20,2 $ lit
3 $, short, lit

line without delimiter is ignored
`, 2048)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table) != 4 {
		t.Fatalf("len(table) = %d, want 4", len(table))
	}

	tests := []struct {
		first, last, step int
		valueCount        int
	}{
		{1, 1, 1, 2},
		{5, 9, 1, 4},
		{10, 20, 2, 3},
		{3, 3, 1, 5},
	}
	for i, tt := range tests {
		r := table[i]
		if r.First != tt.first || r.Last != tt.last || r.Step != tt.step {
			t.Errorf("record %d range = %d,%d,%d, want %d,%d,%d",
				i, r.First, r.Last, r.Step, tt.first, tt.last, tt.step)
		}
		if len(r.Values) != tt.valueCount {
			t.Errorf("record %d has %d values, want %d", i, len(r.Values), tt.valueCount)
		}
	}
}

func TestLoadConcatenatesFragments(t *testing.T) {
	table, err := loadTable(t, "1 $ lit,short\n", 2048)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []genome.Value{
		genome.Lit(1), genome.Lit(2), genome.Lit(3),
		genome.Placeholder("A"), genome.Placeholder("C"),
	}
	got := table[0].Values
	if len(got) != len(want) {
		t.Fatalf("values = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLoadCellRangeChecked(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"zero", "0 $ short\n"},
		{"negative", "0x8000_0000_0000_0000 $ short\n"},
		{"beyond frame", "2049 $ short\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadTable(t, tt.line, 2048)
			if tt.name == "negative" {
				// Overflows int64 parsing before the range check.
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if !errors.Is(err, ErrCellRange) {
				t.Fatalf("err = %v, want ErrCellRange", err)
			}
		})
	}
}

func TestLoadUnknownFragment(t *testing.T) {
	_, err := loadTable(t, "1 $ ghost\n", 2048)
	if !errors.Is(err, ErrUnknownFragment) {
		t.Fatalf("err = %v, want ErrUnknownFragment", err)
	}
}

func TestLongestSequence(t *testing.T) {
	table, err := loadTable(t, "1 $ short\n2 $ long\n3 $ lit\n", 2048)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := table.LongestSequence(); got != 4 {
		t.Errorf("LongestSequence = %d, want 4", got)
	}
	var empty Table
	if got := empty.LongestSequence(); got != 0 {
		t.Errorf("empty LongestSequence = %d, want 0", got)
	}
}
