package main

import (
	"fmt"
	"os"

	"github.com/bloeys/cubefx/renderer"
	"github.com/pelletier/go-toml/v2"
)

const (
	OutputFormat_PNG    = "png"
	OutputFormat_RawLz4 = "raw.lz4"
)

type Config struct {
	FragmentShader string `toml:"fragment_shader"`
	Size           uint32 `toml:"size"`
	MipLevels      uint32 `toml:"mip_levels"`
	OutDir         string `toml:"out_dir"`
	Format         string `toml:"format"`

	RenderStates RenderStatesConfig `toml:"render_states"`
	Materials    []MaterialConfig   `toml:"materials"`
}

type RenderStatesConfig struct {
	DepthTest string `toml:"depth_test"`
	Cull      string `toml:"cull"`
	Blend     string `toml:"blend"`
}

type MaterialConfig struct {
	Name  string    `toml:"name"`
	Image string    `toml:"image"`
	Color []float32 `toml:"color"`

	DiffuseIntensity  *float32 `toml:"diffuse_intensity"`
	SpecularIntensity *float32 `toml:"specular_intensity"`
	SpecularPower     *float32 `toml:"specular_power"`
}

func DefaultConfig() Config {
	return Config{
		Size:      256,
		MipLevels: 1,
		OutDir:    "./out",
		Format:    OutputFormat_PNG,
		RenderStates: RenderStatesConfig{
			DepthTest: renderer.DepthTest_Always.String(),
			Cull:      renderer.Cull_None.String(),
			Blend:     renderer.Blend_None.String(),
		},
	}
}

// LoadConfig reads a toml config, with anything missing taken from DefaultConfig
func LoadConfig(path string) (Config, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {

	if c.FragmentShader == "" {
		return fmt.Errorf("config field 'fragment_shader' must be set")
	}

	if c.Size == 0 {
		return fmt.Errorf("config field 'size' must be above zero")
	}

	if c.MipLevels == 0 || c.Size>>(c.MipLevels-1) == 0 {
		return fmt.Errorf("config field 'mip_levels' must be between 1 and log2(size)+1, got %d", c.MipLevels)
	}

	if c.Format != OutputFormat_PNG && c.Format != OutputFormat_RawLz4 {
		return fmt.Errorf("config field 'format' must be '%s' or '%s', got '%s'", OutputFormat_PNG, OutputFormat_RawLz4, c.Format)
	}

	if _, err := c.RenderStates.Parse(); err != nil {
		return err
	}

	for i, m := range c.Materials {
		if len(m.Color) != 0 && len(m.Color) != 4 {
			return fmt.Errorf("material %d ('%s') color must have 4 components, got %d", i, m.Name, len(m.Color))
		}
	}

	return nil
}

func (rs *RenderStatesConfig) Parse() (renderer.RenderStates, error) {

	depthTest, err := renderer.ParseDepthTest(rs.DepthTest)
	if err != nil {
		return renderer.RenderStates{}, err
	}

	cull, err := renderer.ParseCull(rs.Cull)
	if err != nil {
		return renderer.RenderStates{}, err
	}

	blend, err := renderer.ParseBlend(rs.Blend)
	if err != nil {
		return renderer.RenderStates{}, err
	}

	return renderer.RenderStates{
		DepthTest: depthTest,
		Cull:      cull,
		Blend:     blend,
	}, nil
}
