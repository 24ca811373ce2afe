package registry

import (
	"reflect"
	"testing"

	"revscope/internal/model"
)

func TestNewDefaultsWhenEmpty(t *testing.T) {
	reg, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reg.Slugs()) == 0 {
		t.Fatalf("expected default entries")
	}
	if reg.DisplayName("hypurrfi") != "HypurrFi" {
		t.Fatalf("default display name mismatch: %q", reg.DisplayName("hypurrfi"))
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]model.ProtocolEntry{
		{Slug: "a"},
		{Slug: "a"},
	})
	if err == nil {
		t.Fatalf("expected duplicate slug error")
	}
}

func TestNewRejectsUnknownMergeTarget(t *testing.T) {
	_, err := New([]model.ProtocolEntry{
		{Slug: "b", MergeInto: "missing"},
	})
	if err == nil {
		t.Fatalf("expected unknown merge target error")
	}
}

func TestNewRejectsChainedMerge(t *testing.T) {
	_, err := New([]model.ProtocolEntry{
		{Slug: "a", MergeInto: "b"},
		{Slug: "b", MergeInto: "c"},
		{Slug: "c"},
	})
	if err == nil {
		t.Fatalf("expected chained merge error")
	}
}

func TestCanonicalResolvesMerge(t *testing.T) {
	reg, err := New([]model.ProtocolEntry{
		{Slug: "a"},
		{Slug: "b", MergeInto: "a"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := reg.Canonical("b"); got != "a" {
		t.Fatalf("Canonical(b) = %q, want a", got)
	}
	if got := reg.Canonical("a"); got != "a" {
		t.Fatalf("Canonical(a) = %q, want a", got)
	}
	if got := reg.Canonical("unknown"); got != "unknown" {
		t.Fatalf("Canonical(unknown) = %q, want unknown", got)
	}
}

func TestCanonicalSlugsExcludeMerged(t *testing.T) {
	reg, err := New([]model.ProtocolEntry{
		{Slug: "a"},
		{Slug: "b", MergeInto: "a"},
		{Slug: "c"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := reg.CanonicalSlugs(), []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("canonical slugs mismatch: %v != %v", got, want)
	}
	if got, want := reg.Slugs(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("slugs mismatch: %v != %v", got, want)
	}
}

func TestDisplayNameFallbackCapitalizes(t *testing.T) {
	reg, err := New([]model.ProtocolEntry{{Slug: "keiko-finance"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := reg.DisplayName("keiko-finance"); got != "Keiko-finance" {
		t.Fatalf("fallback = %q", got)
	}
	if got := reg.DisplayName("unregistered"); got != "Unregistered" {
		t.Fatalf("fallback = %q", got)
	}
}
