// Package driver wires the lexer, parser, and lowering visitor into the
// single parse-then-lower-then-print pipeline the CLI drives, optionally
// short-circuited by internal/buildcache, and classifies failures the way
// spec.md §6/§7 requires: a parser error is a "Syntax error", everything
// the lowering visitor returns is a "Generation error". Both are also
// wrapped in a grpc status so a non-CLI caller (a future server front end)
// gets a structured code alongside the human-readable message.
package driver

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/funvibe/vfsc/internal/buildcache"
	"github.com/funvibe/vfsc/internal/lowering"
	"github.com/funvibe/vfsc/internal/parser"
)

// Result is the outcome of a successful Compile.
type Result struct {
	IR        string
	CacheHit  bool
	SourceKey string
}

// Driver runs the pipeline, consulting cache when non-nil.
type Driver struct {
	cache *buildcache.Cache
}

// New creates a Driver. cache may be nil, in which case every Compile
// call runs the full pipeline.
func New(cache *buildcache.Cache) *Driver {
	return &Driver{cache: cache}
}

// Compile lexes, parses, lowers, and renders src to IR text, in that
// order, short-circuiting through the cache when available.
func (d *Driver) Compile(src string) (Result, error) {
	key := buildcache.HashSource(src)

	if d.cache != nil {
		if irText, hit, err := d.cache.Lookup(key); err == nil && hit {
			return Result{IR: irText, CacheHit: true, SourceKey: key}, nil
		}
	}

	prog, err := parser.Parse(src)
	if err != nil {
		return Result{}, wrapSyntaxError(err)
	}

	module, err := lowering.Generate(prog)
	if err != nil {
		return Result{}, wrapGenerationError(err)
	}

	irText := module.String()

	if d.cache != nil {
		// Store failures don't invalidate a successful compile; the next
		// run simply misses cache and recompiles.
		_ = d.cache.Store(key, irText, 0)
	}

	return Result{IR: irText, CacheHit: false, SourceKey: key}, nil
}

func wrapSyntaxError(err error) error {
	return status.Error(codes.InvalidArgument, fmt.Sprintf("Syntax error: %s", err))
}

// wrapGenerationError classifies a lowering failure into a grpc code:
// an unresolved reference is NotFound, everything else from the lowering
// package is FailedPrecondition (spec.md §7).
func wrapGenerationError(err error) error {
	code := codes.FailedPrecondition
	switch err.(type) {
	case *lowering.UndefinedSymbolError, *lowering.FunctionNotDefinedError:
		code = codes.NotFound
	}
	return status.Error(code, fmt.Sprintf("Generation error: %s", err))
}
