package score

import "github.com/geraldfingburke/verinews/internal/domain/entity"

// BiasCompass aggregates the four-axis bias distribution for an Event
// from its member sources' Source Registry rows (§4.5, §6). Sources
// absent from the registry contribute the neutral default
// (western/center/factual), per the registry's documented
// graceful-degrade lookup behavior.
func BiasCompass(registry *entity.SourceRegistry, sourceDomains []string) entity.BiasCompass {
	geo := entity.BiasDistribution{"western": 0, "eastern": 0, "global_south": 0}
	political := entity.BiasDistribution{"left": 0, "center": 0, "right": 0}
	tone := entity.BiasDistribution{"sensational": 0, "factual": 0}
	detail := entity.BiasDistribution{"surface": 0, "deep": 0}

	n := float64(len(sourceDomains))
	if n == 0 {
		return entity.BiasCompass{Geographic: geo, Political: political, Tone: tone, Detail: detail}
	}

	for _, domain := range sourceDomains {
		reg, ok := registry.Lookup(domain)
		if !ok {
			reg = entity.SourceRegistration{
				Region:        entity.RegionWestern,
				PoliticalBias: entity.PoliticalBias{Center: 1},
				ToneBias:      entity.ToneBias{Factual: 1},
			}
		}

		geo[string(reg.Region)] += 1 / n
		political["left"] += reg.PoliticalBias.Left / n
		political["center"] += reg.PoliticalBias.Center / n
		political["right"] += reg.PoliticalBias.Right / n
		tone["sensational"] += reg.ToneBias.Sensational / n
		tone["factual"] += reg.ToneBias.Factual / n
	}

	// Detail is derived from snippet depth elsewhere (scorer has no
	// per-source registry signal for it); callers that have per-article
	// snippet lengths should call DetailBias directly and merge it in.
	detail["surface"] = 0.5
	detail["deep"] = 0.5

	return entity.BiasCompass{Geographic: geo, Political: political, Tone: tone, Detail: detail}
}

// DetailBias scores the surface/deep axis from article snippet
// lengths: articles with a long retained snippet count as "deep"
// coverage (§4.5 bias compass, detail axis).
func DetailBias(snippetLengths []int, deepThreshold int) entity.BiasDistribution {
	if len(snippetLengths) == 0 {
		return entity.BiasDistribution{"surface": 0.5, "deep": 0.5}
	}

	deep := 0
	for _, length := range snippetLengths {
		if length >= deepThreshold {
			deep++
		}
	}
	deepRatio := float64(deep) / float64(len(snippetLengths))
	return entity.BiasDistribution{"surface": 1 - deepRatio, "deep": deepRatio}
}

// PoliticalEntropy computes the normalized Shannon entropy of a
// political bias distribution, the "political diversity" term used by
// the importance score (§4.5).
func PoliticalEntropy(political entity.BiasDistribution) float64 {
	return shannonEntropy([]float64{political["left"], political["center"], political["right"]})
}
