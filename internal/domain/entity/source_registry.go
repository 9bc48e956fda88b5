package entity

// Region buckets a source's geography for the bias compass and geo
// diversity (§6 Source Registry, §4.5).
type Region string

// Region values.
const (
	RegionWestern     Region = "western"
	RegionEastern     Region = "eastern"
	RegionGlobalSouth Region = "global_south"
)

// PoliticalBias is a normalized left/center/right distribution that sums
// to 1.0.
type PoliticalBias struct {
	Left   float64
	Center float64
	Right  float64
}

// ToneBias is a normalized sensational/factual distribution that sums to
// 1.0.
type ToneBias struct {
	Sensational float64
	Factual     float64
}

// SourceRegistration is one static entry in the Source Registry (§6): a
// read-only-at-runtime table of per-domain metadata used by the scorer's
// bias compass, category classifier, and official-evidence check.
type SourceRegistration struct {
	Domain        string
	Region        Region
	Country       string
	PoliticalBias PoliticalBias
	ToneBias      ToneBias
	// Official marks a primary-evidence source per §4.5's Primary
	// evidence component: {USGS, WHO, NASA, UN OCHA, ReliefWeb}.
	Official bool
}

// OfficialDomains enumerates the primary-evidence source domains used by
// the truth-score "primary evidence" component (§4.5) and by fetchers'
// ngo_gov variant.
var OfficialDomains = map[string]bool{
	"usgs.gov":      true,
	"who.int":       true,
	"nasa.gov":      true,
	"unocha.org":    true,
	"reliefweb.int": true,
}

// MajorWireDomains enumerates the major-wire-coverage domains used by the
// "underreported" determination (§4.5, §4.6 glossary: an event with
// official/NGO evidence and no major-wire coverage beyond 48h).
var MajorWireDomains = map[string]bool{
	"ap.org":      true,
	"reuters.com": true,
	"afp.com":     true,
}

// SourceRegistry is a read-only-at-runtime lookup over SourceRegistration
// rows, keyed by domain (§5 Shared resources: "The Source Registry is
// read-only at runtime").
type SourceRegistry struct {
	byDomain map[string]SourceRegistration
}

// NewSourceRegistry builds a registry from a slice of registrations.
func NewSourceRegistry(rows []SourceRegistration) *SourceRegistry {
	m := make(map[string]SourceRegistration, len(rows))
	for _, r := range rows {
		m[r.Domain] = r
	}
	return &SourceRegistry{byDomain: m}
}

// Lookup returns the registration for a domain and whether it was found.
// Unknown domains are treated as western/center/factual by callers (a
// neutral default), never as an error — the registry degrades gracefully
// for sources not yet catalogued.
func (r *SourceRegistry) Lookup(domain string) (SourceRegistration, bool) {
	reg, ok := r.byDomain[domain]
	return reg, ok
}

// IsOfficial reports whether a domain is one of the primary-evidence
// sources (§4.5).
func (r *SourceRegistry) IsOfficial(domain string) bool {
	if reg, ok := r.byDomain[domain]; ok {
		return reg.Official
	}
	return OfficialDomains[domain]
}

// DefaultRegistrations is a small seed table covering the sources
// exercised by the end-to-end scenarios in §8. Operators extend this via
// the YAML-loaded registry in production (see internal/config).
func DefaultRegistrations() []SourceRegistration {
	return []SourceRegistration{
		{Domain: "usgs.gov", Region: RegionWestern, Country: "US", PoliticalBias: PoliticalBias{Center: 1}, ToneBias: ToneBias{Factual: 1}, Official: true},
		{Domain: "who.int", Region: RegionWestern, Country: "CH", PoliticalBias: PoliticalBias{Center: 1}, ToneBias: ToneBias{Factual: 1}, Official: true},
		{Domain: "nasa.gov", Region: RegionWestern, Country: "US", PoliticalBias: PoliticalBias{Center: 1}, ToneBias: ToneBias{Factual: 1}, Official: true},
		{Domain: "unocha.org", Region: RegionWestern, Country: "CH", PoliticalBias: PoliticalBias{Center: 1}, ToneBias: ToneBias{Factual: 1}, Official: true},
		{Domain: "reliefweb.int", Region: RegionWestern, Country: "CH", PoliticalBias: PoliticalBias{Center: 1}, ToneBias: ToneBias{Factual: 1}, Official: true},
		{Domain: "ap.org", Region: RegionWestern, Country: "US", PoliticalBias: PoliticalBias{Center: 1}, ToneBias: ToneBias{Factual: 0.9, Sensational: 0.1}},
		{Domain: "reuters.com", Region: RegionWestern, Country: "UK", PoliticalBias: PoliticalBias{Center: 1}, ToneBias: ToneBias{Factual: 0.9, Sensational: 0.1}},
		{Domain: "afp.com", Region: RegionWestern, Country: "FR", PoliticalBias: PoliticalBias{Center: 1}, ToneBias: ToneBias{Factual: 0.9, Sensational: 0.1}},
	}
}
