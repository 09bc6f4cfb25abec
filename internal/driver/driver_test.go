package driver

import (
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/funvibe/vfsc/internal/buildcache"
)

const validSource = `
func Main() {
    return 0;
}
`

func TestCompileNoCache(t *testing.T) {
	d := New(nil)
	result, err := d.Compile(validSource)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if result.CacheHit {
		t.Errorf("first compile with no cache should not report a hit")
	}
	if !strings.Contains(result.IR, "define i32 @main()") {
		t.Errorf("expected lowered IR to define @main, got:\n%s", result.IR)
	}
}

func TestCompileCacheHit(t *testing.T) {
	cache, err := buildcache.Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("Open cache: %v", err)
	}
	defer cache.Close()

	d := New(cache)

	first, err := d.Compile(validSource)
	if err != nil {
		t.Fatalf("first Compile: %v", err)
	}
	if first.CacheHit {
		t.Errorf("first compile should be a cache miss")
	}

	second, err := d.Compile(validSource)
	if err != nil {
		t.Fatalf("second Compile: %v", err)
	}
	if !second.CacheHit {
		t.Errorf("second compile of identical source should hit the cache")
	}
	if second.IR != first.IR {
		t.Errorf("cached IR should match the originally generated IR")
	}
}

func TestCompileSyntaxErrorClassification(t *testing.T) {
	d := New(nil)
	_, err := d.Compile(`func Main() { let x: int = ; }`)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected a grpc status error, got %v", err)
	}
	if st.Code() != codes.InvalidArgument {
		t.Errorf("syntax errors should map to InvalidArgument, got %v", st.Code())
	}
	if !strings.Contains(st.Message(), "Syntax error") {
		t.Errorf("message should be classified as a Syntax error, got %q", st.Message())
	}
}

func TestCompileGenerationErrorClassification(t *testing.T) {
	d := New(nil)
	_, err := d.Compile(`func Main() { return y; }`)
	if err == nil {
		t.Fatal("expected a generation error for an undefined symbol")
	}
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected a grpc status error, got %v", err)
	}
	if st.Code() != codes.NotFound {
		t.Errorf("an undefined symbol should map to NotFound, got %v", st.Code())
	}
	if !strings.Contains(st.Message(), "Generation error") {
		t.Errorf("message should be classified as a Generation error, got %q", st.Message())
	}
}
