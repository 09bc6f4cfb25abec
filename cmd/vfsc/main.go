// Command vfsc reads a VFS source file (or standard input when no path is
// given), lowers it to LLVM-style IR, and
// writes the textual IR to stdout (or the path configured in
// .vfsc.yaml). Failures are printed to stderr prefixed with a
// correlation ID, colorized when stderr is a terminal.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/funvibe/vfsc/internal/buildcache"
	"github.com/funvibe/vfsc/internal/config"
	"github.com/funvibe/vfsc/internal/driver"
)

func main() {
	path := ""
	var src []byte
	var err error
	if len(os.Args) < 2 {
		src, err = io.ReadAll(os.Stdin)
	} else {
		path = os.Args[1]
		src, err = os.ReadFile(path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "vfsc: %s\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(filepath.Dir(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "vfsc: reading .vfsc.yaml: %s\n", err)
		os.Exit(1)
	}

	var cache *buildcache.Cache
	if cfg.CacheEnabled {
		cachePath := filepath.Join(filepath.Dir(path), ".vfsc-cache.sqlite")
		cache, err = buildcache.Open(cachePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vfsc: opening build cache: %s\n", err)
			os.Exit(1)
		}
		defer cache.Close()
	}

	d := driver.New(cache)
	result, err := d.Compile(string(src))
	if err != nil {
		fd := os.Stderr.Fd()
		colorize := cfg.Color && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
		reportFailure(os.Stderr, err, colorize)
		os.Exit(1)
	}

	out := os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vfsc: writing %s: %s\n", cfg.Output, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	fmt.Fprintln(out, result.IR)
}

// reportFailure prints err with a per-run correlation ID, so a user
// reporting a bug can be asked for the ID rather than a full transcript.
func reportFailure(w *os.File, err error, colorize bool) {
	runID := uuid.New().String()
	msg := err.Error()
	if st, ok := status.FromError(err); ok && st.Code() != codes.OK {
		msg = st.Message()
	}
	if colorize {
		fmt.Fprintf(w, "\x1b[31m[%s] %s\x1b[0m\n", runID, msg)
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", runID, msg)
}
