package analysis

import "strings"

// Tickers treated as hard tech regardless of sector/industry labels.
var hardTechTickers = map[string]struct{}{
	"RKLB": {}, "LUNR": {}, "ASTS": {}, "SPCE": {}, "PLTR": {}, "IONQ": {},
	"RGTI": {}, "DNA": {}, "JOBY": {}, "ACHR": {}, "BABA": {}, "NIO": {},
	"XPEV": {}, "LI": {}, "TSLA": {}, "NVDA": {}, "AMD": {}, "MSFT": {},
	"GOOG": {}, "GOOGL": {}, "AMZN": {},
}

var blueOceanKeywords = []string{"aerospace", "defense", "space", "satellite", "rocket", "quantum"}

var hardTechKeywords = []string{"semiconductor", "artificial intelligence", "software", "auto", "biotech", "internet"}

// Sector median EV/EBITDA multiples used as valuation benchmarks. Order
// matters: substring matching takes the first hit, so a label naming
// several sectors always resolves the same way.
var sectorEBITDAMedians = []struct {
	name   string
	median float64
}{
	{"Technology", 32.0},
	{"Consumer Electronics", 25.0},
	{"Communication Services", 20.0},
	{"Healthcare", 18.0},
	{"Financial Services", 12.0},
	{"Energy", 10.0},
	{"Utilities", 12.0},
	{"Unknown", 18.0},
}

const defaultSectorBenchmark = 18.0

// SectorBenchmark returns the median EV/EBITDA for a sector, matching by
// substring, with a cross-market default.
func SectorBenchmark(sector string) float64 {
	if sector == "" {
		return defaultSectorBenchmark
	}
	low := strings.ToLower(sector)
	for _, s := range sectorEBITDAMedians {
		if strings.Contains(low, strings.ToLower(s.name)) {
			return s.median
		}
	}
	return defaultSectorBenchmark
}

// classifyTrack tags the security's track: blue-ocean keyword match wins;
// the hard-tech allow-list only applies when the security is not blue-ocean.
func classifyTrack(ticker, sector, industry string) (blueOcean, hardTech bool) {
	sec := strings.ToLower(sector)
	ind := strings.ToLower(industry)
	for _, kw := range blueOceanKeywords {
		if strings.Contains(sec, kw) || strings.Contains(ind, kw) {
			blueOcean = true
			break
		}
	}
	for _, kw := range hardTechKeywords {
		if strings.Contains(sec, kw) || strings.Contains(ind, kw) {
			hardTech = true
			break
		}
	}
	if _, ok := hardTechTickers[ticker]; ok && !blueOcean {
		hardTech = true
	}
	return blueOcean, hardTech
}
