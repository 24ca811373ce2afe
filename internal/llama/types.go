package llama

import (
	"encoding/json"
	"fmt"
)

// ProtocolDoc is the subset of GET /protocol/{slug} the pipeline reads.
type ProtocolDoc struct {
	TVL       []SeriesPoint             `json:"tvl"`
	ChainTVLs map[string]ChainTVLSeries `json:"chainTvls"`
}

// ChainTVLSeries is one chain's slice of a protocol's TVL history.
type ChainTVLSeries struct {
	TVL []SeriesPoint `json:"tvl"`
}

// FeesDoc is the subset of GET /summary/fees/{slug} the pipeline reads.
//
// TotalDataChart points are [timestamp, value] pairs. Breakdown points carry
// a per-chain mapping whose values are either a plain number or a nested
// sub-component mapping; interpretation is left to the normalizer.
type FeesDoc struct {
	TotalDataChart          []SeriesPoint    `json:"totalDataChart"`
	TotalDataChartBreakdown []BreakdownPoint `json:"totalDataChartBreakdown"`
}

// SeriesPoint is one (timestamp, value) observation. The upstream API encodes
// points either as a [ts, value] pair or as a {date, totalLiquidityUSD}
// object depending on the endpoint and field, so both shapes are accepted.
type SeriesPoint struct {
	TS    int64
	Value float64
}

func (p *SeriesPoint) UnmarshalJSON(data []byte) error {
	var pair []json.Number
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) < 2 {
			return fmt.Errorf("series point pair has %d elements", len(pair))
		}
		ts, err := pair[0].Int64()
		if err != nil {
			// Timestamps occasionally arrive as floats.
			f, ferr := pair[0].Float64()
			if ferr != nil {
				return fmt.Errorf("series point timestamp: %w", err)
			}
			ts = int64(f)
		}
		val, err := pair[1].Float64()
		if err != nil {
			return fmt.Errorf("series point value: %w", err)
		}
		p.TS = ts
		p.Value = val
		return nil
	}

	var obj struct {
		Date              json.Number `json:"date"`
		TotalLiquidityUSD float64     `json:"totalLiquidityUSD"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("series point: %w", err)
	}
	ts, err := obj.Date.Int64()
	if err != nil {
		f, ferr := obj.Date.Float64()
		if ferr != nil {
			return fmt.Errorf("series point date: %w", err)
		}
		ts = int64(f)
	}
	p.TS = ts
	p.Value = obj.TotalLiquidityUSD
	return nil
}

// BreakdownPoint is one [ts, {chainLabel: value}] breakdown observation.
// Chain values stay raw; they may be numbers or sub-component mappings.
type BreakdownPoint struct {
	TS     int64
	Chains map[string]json.RawMessage
}

func (p *BreakdownPoint) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("breakdown point: %w", err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("breakdown point pair has %d elements", len(pair))
	}

	var ts json.Number
	if err := json.Unmarshal(pair[0], &ts); err != nil {
		return fmt.Errorf("breakdown timestamp: %w", err)
	}
	sec, err := ts.Int64()
	if err != nil {
		f, ferr := ts.Float64()
		if ferr != nil {
			return fmt.Errorf("breakdown timestamp: %w", err)
		}
		sec = int64(f)
	}

	var chains map[string]json.RawMessage
	if err := json.Unmarshal(pair[1], &chains); err != nil {
		return fmt.Errorf("breakdown chains: %w", err)
	}

	p.TS = sec
	p.Chains = chains
	return nil
}
