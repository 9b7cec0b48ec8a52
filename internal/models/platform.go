package models

import "strings"

// PlatformName identifies a streaming venue.
type PlatformName string

const (
	Chaturbate PlatformName = "Chaturbate"
	Stripchat  PlatformName = "Stripchat"
	CamSoda    PlatformName = "CamSoda"
	Cum4K      PlatformName = "Cum4K"
	Jasmin     PlatformName = "Jasmin"
)

// BaselineRate is the currency value of one token on a platform without an explicit rate.
const BaselineRate = 0.05

// Platform holds the fixed metadata of a venue.
type Platform struct {
	Name    PlatformName
	Initial string
	Site    string
	Rate    float64
}

// catalog is ordered canonically; that order drives platform lists inside shifts and tie-breaks in aggregation.
var catalog = []Platform{
	{Name: Chaturbate, Initial: "C", Site: "chaturbate.com", Rate: 0.05},
	{Name: Stripchat, Initial: "S", Site: "stripchat.com", Rate: 0.05},
	{Name: CamSoda, Initial: "C", Site: "camsoda.com", Rate: 0.05},
	{Name: Cum4K, Initial: "C", Site: "cum4k.com", Rate: 0.10},
	{Name: Jasmin, Initial: "J", Site: "jasmin.com", Rate: 0.05},
}

// Platforms returns a copy of the platform catalog in canonical order.
func Platforms() []Platform {
	out := make([]Platform, len(catalog))
	copy(out, catalog)
	return out
}

// PlatformNames returns every known platform name in canonical order.
func PlatformNames() []PlatformName {
	names := make([]PlatformName, len(catalog))
	for i, p := range catalog {
		names[i] = p.Name
	}
	return names
}

// LookupPlatform returns the catalog entry for name.
func LookupPlatform(name PlatformName) (Platform, bool) {
	for _, p := range catalog {
		if p.Name == name {
			return p, true
		}
	}
	return Platform{}, false
}

// ParsePlatformName matches s against the catalog, ignoring case and surrounding space.
//
// "Cam4" is accepted as an alias for [Cum4K].
func ParsePlatformName(s string) (PlatformName, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "cam4") {
		return Cum4K, true
	}
	for _, p := range catalog {
		if strings.EqualFold(string(p.Name), s) {
			return p.Name, true
		}
	}
	return "", false
}

// Index returns the canonical position of p, or -1 for an unknown name.
func (p PlatformName) Index() int {
	for i, entry := range catalog {
		if entry.Name == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is a known platform.
func (p PlatformName) Valid() bool { return p.Index() >= 0 }

func (p PlatformName) String() string { return string(p) }

// Rates converts tokens to currency per platform.
//
// The zero value answers the catalog rates.
type Rates struct {
	byName   map[PlatformName]float64
	fallback float64
}

// DefaultRates returns the catalog rates.
func DefaultRates() Rates {
	byName := make(map[PlatformName]float64, len(catalog))
	for _, p := range catalog {
		byName[p.Name] = p.Rate
	}
	return Rates{byName: byName, fallback: BaselineRate}
}

// NewRates builds rates from configuration keyed by platform name.
//
// Unknown names and negative rates are skipped; catalog rates fill the gaps.
// A non-positive fallback keeps [BaselineRate].
func NewRates(fallback float64, overrides map[string]float64) Rates {
	rates := DefaultRates()
	if fallback > 0 {
		rates.fallback = fallback
	}
	for key, rate := range overrides {
		if name, ok := ParsePlatformName(key); ok && rate >= 0 {
			rates.byName[name] = rate
		}
	}
	return rates
}

// With returns a copy of r with the rate for name replaced.
func (r Rates) With(name PlatformName, rate float64) Rates {
	byName := make(map[PlatformName]float64, len(r.byName)+1)
	for k, v := range r.byName {
		byName[k] = v
	}
	byName[name] = rate
	return Rates{byName: byName, fallback: r.fallback}
}

// Rate returns the rate for name, falling back to the baseline.
func (r Rates) Rate(name PlatformName) float64 {
	if rate, ok := r.byName[name]; ok {
		return rate
	}
	if r.byName == nil {
		if p, ok := LookupPlatform(name); ok {
			return p.Rate
		}
	}
	if r.fallback > 0 {
		return r.fallback
	}
	return BaselineRate
}
