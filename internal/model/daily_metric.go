package model

import "time"

// DailyMetric is one joined row of TVL and revenue for a canonical slug.
//
// TVL is a pointer because "no TVL observation" must stay distinguishable
// from a measured zero. Revenue defaults to 0 for days that only have a TVL
// observation; the two series are outer-joined, never inner-joined.
type DailyMetric struct {
	Slug    string    `json:"slug"`
	Day     time.Time `json:"day"`
	TVL     *float64  `json:"tvl,omitempty"`
	Revenue float64   `json:"revenue"`
}
