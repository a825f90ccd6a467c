package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// config is the server's on-disk configuration, loaded from tesseract.toml.
// A missing file is created with defaults on first run, matching the
// reference server's bootstrap behavior.
type config struct {
	Listen struct {
		Address string
	}
	Compression struct {
		// Threshold is the packet body size, in bytes, above which bodies
		// are zlib-compressed (only bodies larger than Threshold). A
		// negative value disables compression entirely.
		Threshold int32
		Level     int
	}
	World struct {
		SectionCount int
		YOffset      int32
		AirState     uint32
		DefaultBiome uint32
	}
	Data struct {
		RegistriesReport string
		BlocksReport     string
		LevelDir         string
	}
}

func defaultConfig() config {
	var c config
	c.Listen.Address = "0.0.0.0:25565"
	c.Compression.Threshold = 256
	c.Compression.Level = 6
	c.World.SectionCount = 24
	c.World.YOffset = -4
	c.World.AirState = 0
	c.World.DefaultBiome = 0
	c.Data.RegistriesReport = "generated/reports/registries.json"
	c.Data.BlocksReport = "generated/reports/blocks.json"
	c.Data.LevelDir = "world"
	return c
}

// readConfig loads path, creating it with defaultConfig's values if it does
// not exist yet.
func readConfig(path string) (config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		c := defaultConfig()
		data, err := toml.Marshal(c)
		if err != nil {
			return config{}, fmt.Errorf("marshal default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return config{}, fmt.Errorf("write default config: %w", err)
		}
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, fmt.Errorf("read config: %w", err)
	}
	c := defaultConfig()
	if err := toml.Unmarshal(data, &c); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}
