package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quanterra/framegen/internal/synth"
)

type fixture struct {
	dir        string
	configPath string
	outputPath string
}

// newFixture lays out a complete input set in a temp dir: the spec's
// worked example of nucleotide A = 10,20 and fragment F = AA.
func newFixture(t *testing.T, distLines string) fixture {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"nucleotides.txt":  "A 10,20\nB 99\n",
		"fragments.txt":    "F AA\nlit 1,2,3,4,5\n",
		"distribution.txt": distLines,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	f := fixture{
		dir:        dir,
		configPath: filepath.Join(dir, "framegen.conf"),
		outputPath: filepath.Join(dir, "frames.bin"),
	}
	conf := fmt.Sprintf(`
adc_per_nucleotide = 1
random_seed = 7
cells_per_frame = 2048
ring_buffer_size = "1M"
data_frames = 2
filler_value = 0xEE
nucleotide_file = %q
fragment_file = %q
distribution_file = %q
output_file = %q
`,
		filepath.Join(dir, "nucleotides.txt"),
		filepath.Join(dir, "fragments.txt"),
		filepath.Join(dir, "distribution.txt"),
		f.outputPath)
	if err := os.WriteFile(f.configPath, []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}
	return f
}

func newTestApp(t *testing.T, f fixture) *App {
	t.Helper()
	a, err := New(f.configPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestGenerateWorkedExample(t *testing.T) {
	f := newFixture(t, "1,1,1 $ F\n")
	a := newTestApp(t, f)

	if err := a.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	out, err := os.ReadFile(f.outputPath)
	if err != nil {
		t.Fatal(err)
	}
	// F = AA is 2 values long; 2/2+1 = 2 groups of 2 frames.
	if len(out) != 4*2048 {
		t.Fatalf("output = %d bytes, want %d", len(out), 4*2048)
	}

	// Frames 0 and 1 sample cell 0 from {10, 20}; frames 2 and 3 are
	// past the sequence and keep the filler.
	for frame := 0; frame < 2; frame++ {
		v := out[frame*2048]
		if v != 10 && v != 20 {
			t.Errorf("frame %d cell 0 = %d, want member of {10, 20}", frame, v)
		}
	}
	for frame := 2; frame < 4; frame++ {
		if v := out[frame*2048]; v != 0xEE {
			t.Errorf("frame %d cell 0 = %#x, want filler", frame, v)
		}
	}

	// Every untouched cell holds the filler value.
	for i, b := range out {
		if i%2048 == 0 {
			continue
		}
		if b != 0xEE {
			t.Fatalf("byte %d = %#x, want filler 0xEE", i, b)
		}
	}
}

func TestGenerateCapacityFailureWritesNothing(t *testing.T) {
	f := newFixture(t, "1 $ lit\n")

	// Shrink the buffer below one frame group.
	conf, err := os.ReadFile(f.configPath)
	if err != nil {
		t.Fatal(err)
	}
	small := strings.Replace(string(conf), `"1M"`, `"4K"`, 1)
	if err := os.WriteFile(f.configPath, []byte(small), 0o644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t, f)
	if err := a.Generate(); !errors.Is(err, synth.ErrCapacity) {
		t.Fatalf("err = %v, want ErrCapacity", err)
	}
	if _, err := os.Stat(f.outputPath); !os.IsNotExist(err) {
		t.Error("output file exists after capacity failure")
	}
}

func TestGenerateUndefinedFragmentFailsBeforePlanning(t *testing.T) {
	f := newFixture(t, "1 $ ghost\n")
	a := newTestApp(t, f)
	if err := a.Generate(); err == nil {
		t.Fatal("expected error for undefined fragment")
	}
	if _, err := os.Stat(f.outputPath); !os.IsNotExist(err) {
		t.Error("output file exists after load failure")
	}
}

func TestTraceCellRoundTrip(t *testing.T) {
	f := newFixture(t, "3 $ lit\n")
	a := newTestApp(t, f)
	if err := a.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var out bytes.Buffer
	if err := a.TraceCell(&out, 2); err != nil {
		t.Fatalf("TraceCell: %v", err)
	}
	// lit is 5 values long: 5/2+1 = 3 groups, 6 frames; the last frame
	// is past the sequence and reads back the filler.
	want := "1\n2\n3\n4\n5\n238\n"
	if out.String() != want {
		t.Errorf("trace = %q, want %q", out.String(), want)
	}
}

func TestPrintDictionary(t *testing.T) {
	f := newFixture(t, "1,2048,4 $ F,lit\n")
	a := newTestApp(t, f)

	var out bytes.Buffer
	if err := a.PrintDictionary(&out); err != nil {
		t.Fatalf("PrintDictionary: %v", err)
	}
	text := out.String()
	for _, want := range []string{"F", "lit", "1,2048,4"} {
		if !strings.Contains(text, want) {
			t.Errorf("dictionary missing %q:\n%s", want, text)
		}
	}
}

func TestWatchedFiles(t *testing.T) {
	f := newFixture(t, "1 $ F\n")
	a := newTestApp(t, f)
	files := a.WatchedFiles()
	if len(files) != 3 {
		t.Fatalf("WatchedFiles = %v, want 3 entries", files)
	}
	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("watched file %s: %v", path, err)
		}
	}
}
