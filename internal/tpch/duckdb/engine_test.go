package duckdb

import (
	"context"
	"testing"
)

func TestGenerateRejectsInvalidScaleFactor(t *testing.T) {
	engine := NewEngine()
	if _, err := engine.Generate(context.Background(), 0, t.TempDir()); err == nil {
		t.Fatal("expected error for zero scale factor")
	}
	if _, err := engine.Generate(context.Background(), -1, t.TempDir()); err == nil {
		t.Fatal("expected error for negative scale factor")
	}
}

func TestGenerateRejectsEmptyOutputDir(t *testing.T) {
	engine := NewEngine()
	if _, err := engine.Generate(context.Background(), 1, "  "); err == nil {
		t.Fatal("expected error for empty output directory")
	}
}

func TestFormatScaleFactor(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{0.01, "0.01"},
		{0.1, "0.1"},
		{10, "10"},
	}
	for _, tc := range cases {
		if got := formatScaleFactor(tc.in); got != tc.want {
			t.Fatalf("formatScaleFactor(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestQuoting(t *testing.T) {
	if got := quoteIdent(`orders`); got != `"orders"` {
		t.Fatalf("quoteIdent = %q", got)
	}
	if got := quoteIdent(`or"ders`); got != `"or""ders"` {
		t.Fatalf("quoteIdent = %q", got)
	}
	if got := quoteString(`it's`); got != `'it''s'` {
		t.Fatalf("quoteString = %q", got)
	}
}
