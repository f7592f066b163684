package preset

import "squnch/models"

// DefaultID is used when a request omits or misspells the preset.
const DefaultID = "balanced"

// catalog is loaded once and read-only afterwards. Image quality values are
// strictly ordered (90 > 75 > 45) so that, for the same input, high-quality
// output is never smaller than balanced, and balanced never smaller than
// maximum-compression.
var catalog = map[string]models.QualityPreset{
	"high-quality": {
		ID:          "high-quality",
		Name:        "High Quality",
		Description: "Minimal compression, best visual fidelity",
		Image:       models.ImageParams{Quality: 90, FormatStrategy: models.StrategyKeep},
		Video:       models.VideoParams{CRF: 18, Preset: "slow", MaxBitrate: "10000k"},
	},
	"balanced": {
		ID:          "balanced",
		Name:        "Balanced",
		Description: "Good quality with solid size savings",
		Image:       models.ImageParams{Quality: 75, FormatStrategy: models.StrategySmart},
		Video:       models.VideoParams{CRF: 23, Preset: "medium", MaxBitrate: "5000k"},
	},
	"maximum-compression": {
		ID:          "maximum-compression",
		Name:        "Maximum Compression",
		Description: "Smallest output, visible quality tradeoff",
		Image:       models.ImageParams{Quality: 45, FormatStrategy: models.StrategySmart},
		Video:       models.VideoParams{CRF: 28, Preset: "fast", MaxBitrate: "2500k"},
	},
}

// Get returns the preset for id, falling back to the default preset for
// unknown or empty ids. The preset field is optional on compression requests.
func Get(id string) models.QualityPreset {
	if p, ok := catalog[id]; ok {
		return p
	}
	return catalog[DefaultID]
}

// All returns the full catalog keyed by preset id.
func All() map[string]models.QualityPreset {
	out := make(map[string]models.QualityPreset, len(catalog))
	for id, p := range catalog {
		out[id] = p
	}
	return out
}
