package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
)

// sourceRegistryFile is the on-disk shape of the Source Registry YAML
// (§6): a flat list of per-domain registrations, operator-editable
// without a deploy.
type sourceRegistryFile struct {
	Sources []struct {
		Domain   string  `yaml:"domain"`
		Region   string  `yaml:"region"`
		Country  string  `yaml:"country"`
		Official bool    `yaml:"official"`
		Left     float64 `yaml:"left"`
		Center   float64 `yaml:"center"`
		Right    float64 `yaml:"right"`
		Factual  float64 `yaml:"factual"`
		Sensational float64 `yaml:"sensational"`
	} `yaml:"sources"`
}

// LoadSourceRegistry reads the Source Registry from a YAML file at path.
// On any error (missing file, malformed YAML) it logs and falls back to
// entity.DefaultRegistrations(), matching the "affected feature degrades
// gracefully" fail-open posture the rest of the worker config follows.
func LoadSourceRegistry(path string, logger *slog.Logger) *entity.SourceRegistry {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("source registry file unreadable, using built-in defaults",
			slog.String("path", path), slog.Any("error", err))
		return entity.NewSourceRegistry(entity.DefaultRegistrations())
	}

	var file sourceRegistryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		logger.Warn("source registry file malformed, using built-in defaults",
			slog.String("path", path), slog.Any("error", err))
		return entity.NewSourceRegistry(entity.DefaultRegistrations())
	}

	rows := make([]entity.SourceRegistration, 0, len(file.Sources))
	for _, s := range file.Sources {
		rows = append(rows, entity.SourceRegistration{
			Domain:   s.Domain,
			Region:   entity.Region(s.Region),
			Country:  s.Country,
			Official: s.Official,
			PoliticalBias: entity.PoliticalBias{
				Left: s.Left, Center: s.Center, Right: s.Right,
			},
			ToneBias: entity.ToneBias{
				Factual: s.Factual, Sensational: s.Sensational,
			},
		})
	}
	if len(rows) == 0 {
		logger.Warn("source registry file had no entries, using built-in defaults", slog.String("path", path))
		return entity.NewSourceRegistry(entity.DefaultRegistrations())
	}
	return entity.NewSourceRegistry(rows)
}
