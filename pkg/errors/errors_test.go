package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestAsUnwrapsWrappedChain(t *testing.T) {
	t.Parallel()

	base := New(CodeStockLimit, "only 3 left").WithDetails(map[string]any{"limit": 3})
	wrapped := fmt.Errorf("updating cart: %w", base)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error from wrapped chain")
	}
	if typed.Code() != CodeStockLimit {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["limit"] != 3 {
		t.Fatalf("unexpected details: %+v", typed.Details())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection refused")
	err := Wrap(CodeNetwork, cause, "fetching catalog")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Error() != "NETWORK_ERROR: fetching catalog" {
		t.Fatalf("unexpected error string: %q", err.Error())
	}
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	t.Parallel()

	if got := CodeOf(stdErrors.New("plain")); got != CodeInternal {
		t.Fatalf("expected internal code for plain error, got %s", got)
	}
	if got := CodeOf(New(CodeCacheCorrupt, "bad record")); got != CodeCacheCorrupt {
		t.Fatalf("expected cache corrupt code, got %s", got)
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NOPE"))
	if meta.PublicMessage != "internal error" {
		t.Fatalf("expected internal fallback, got %+v", meta)
	}
	if got := MetadataFor(CodeStockLimit); !got.Recoverable || !got.DetailsAllowed {
		t.Fatalf("stock limit should be recoverable with details, got %+v", got)
	}
}
