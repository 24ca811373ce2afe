package registry

import (
	"fmt"
	"strings"
	"unicode"

	"revscope/internal/model"
)

// Registry is the static set of tracked protocols for one report run.
// It is built once at startup and read-only afterwards.
type Registry struct {
	entries []model.ProtocolEntry
	bySlug  map[string]model.ProtocolEntry
}

// DefaultEntries is the built-in protocol set for the Hyperliquid L1 reports.
func DefaultEntries() []model.ProtocolEntry {
	return []model.ProtocolEntry{
		{Slug: "hypurrfi", DisplayName: "HypurrFi"},
		{Slug: "hyperlend", DisplayName: "HyperLend"},
		{Slug: "felix", DisplayName: "Felix"},
		{Slug: "felix-vanilla", MergeInto: "felix"},
		{Slug: "hyperdrive", DisplayName: "Hyperdrive"},
	}
}

// New builds a Registry from entries, falling back to DefaultEntries when
// none are given. A MergeInto target must itself be a registered slug.
func New(entries []model.ProtocolEntry) (*Registry, error) {
	if len(entries) == 0 {
		entries = DefaultEntries()
	}

	bySlug := make(map[string]model.ProtocolEntry, len(entries))
	for _, entry := range entries {
		slug := strings.TrimSpace(entry.Slug)
		if slug == "" {
			return nil, fmt.Errorf("protocol entry with empty slug")
		}
		if _, ok := bySlug[slug]; ok {
			return nil, fmt.Errorf("duplicate protocol slug %q", slug)
		}
		entry.Slug = slug
		bySlug[slug] = entry
	}

	for _, entry := range bySlug {
		if entry.MergeInto == "" {
			continue
		}
		target, ok := bySlug[entry.MergeInto]
		if !ok {
			return nil, fmt.Errorf("slug %q merges into unknown slug %q", entry.Slug, entry.MergeInto)
		}
		if target.MergeInto != "" {
			return nil, fmt.Errorf("slug %q merges into non-canonical slug %q", entry.Slug, entry.MergeInto)
		}
	}

	return &Registry{entries: entries, bySlug: bySlug}, nil
}

// Slugs returns every registered slug, canonical or not. Revenue is fetched
// for all of them.
func (r *Registry) Slugs() []string {
	out := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.Slug)
	}
	return out
}

// CanonicalSlugs returns slugs that are not merged into another one. TVL is
// only fetched for these.
func (r *Registry) CanonicalSlugs() []string {
	out := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.MergeInto == "" {
			out = append(out, entry.Slug)
		}
	}
	return out
}

// Canonical resolves a slug to its reporting slug, following MergeInto.
// Unknown slugs resolve to themselves.
func (r *Registry) Canonical(slug string) string {
	entry, ok := r.bySlug[slug]
	if !ok || entry.MergeInto == "" {
		return slug
	}
	return entry.MergeInto
}

// DisplayName returns the configured display name for a slug, falling back
// to a capitalized form of the slug itself.
func (r *Registry) DisplayName(slug string) string {
	if entry, ok := r.bySlug[slug]; ok && entry.DisplayName != "" {
		return entry.DisplayName
	}
	return capitalize(slug)
}

func capitalize(slug string) string {
	runes := []rune(slug)
	if len(runes) == 0 {
		return slug
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
