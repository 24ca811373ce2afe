package model

// ProtocolEntry describes one tracked protocol in the registry.
//
// MergeInto, when set, names the canonical slug whose revenue this slug's
// revenue is folded into (used for sub-products listed under a separate
// upstream slug). TVL is only fetched for canonical slugs.
type ProtocolEntry struct {
	Slug        string `json:"slug" mapstructure:"slug"`
	DisplayName string `json:"display_name" mapstructure:"display_name"`
	MergeInto   string `json:"merge_into,omitempty" mapstructure:"merge_into"`
}
