package driver

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// TestGolden runs every testdata/*.txtar fixture: the "source" file is
// compiled, and each line of the "expect" file must appear somewhere in
// the resulting IR text.
func TestGolden(t *testing.T) {
	paths, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no golden fixtures found under testdata/")
	}

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			archive, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatalf("ParseFile: %v", err)
			}

			var source, expect []byte
			for _, f := range archive.Files {
				switch f.Name {
				case "source":
					source = f.Data
				case "expect":
					expect = f.Data
				}
			}
			if source == nil || expect == nil {
				t.Fatalf("fixture must have both a 'source' and an 'expect' file")
			}

			d := New(nil)
			result, err := d.Compile(string(source))
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}

			for _, want := range strings.Split(strings.TrimSpace(string(expect)), "\n") {
				want = strings.TrimSpace(want)
				if want == "" {
					continue
				}
				if !strings.Contains(result.IR, want) {
					t.Errorf("IR missing expected substring %q\n--- IR ---\n%s", want, result.IR)
				}
			}
		})
	}
}
