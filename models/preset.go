package models

// FormatStrategy controls the image output format decision.
type FormatStrategy string

const (
	// StrategyKeep re-encodes in the source format.
	StrategyKeep FormatStrategy = "keep"
	// StrategyForceJpeg always emits JPEG.
	StrategyForceJpeg FormatStrategy = "forceJpeg"
	// StrategySmart converts large PNGs to JPEG, keeps everything else.
	StrategySmart FormatStrategy = "smart"
)

// ImageParams are the image-side knobs of a quality preset.
type ImageParams struct {
	Quality        int            `json:"quality"`
	FormatStrategy FormatStrategy `json:"formatStrategy"`
}

// VideoParams are the video-side knobs of a quality preset, passed to the
// external encoder.
type VideoParams struct {
	CRF        int    `json:"crf"`
	Preset     string `json:"preset"`
	MaxBitrate string `json:"maxBitrate"`
}

// QualityPreset is a named quality/size tradeoff, immutable after load.
type QualityPreset struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       ImageParams `json:"image"`
	Video       VideoParams `json:"video"`
}
