package viewer

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed viewer.yaml
var defaultConfigData []byte

// ErrInvalidConfig is returned by LoadConfig when the decoded config cannot describe a scene.
var ErrInvalidConfig = errors.New("invalid viewer config")

// Config describes the viewer scene and its keyboard controls.
type Config struct {
	// Scene is the asset path of the character scene, e.g. "Fox.glb#Scene0".
	Scene string `yaml:"scene"`
	// Animations is the ordered clip registry.
	Animations []string `yaml:"animations"`
	// DefaultAnimation indexes the clip that starts looping on every new player.
	DefaultAnimation int `yaml:"default_animation"`

	Character CharacterConfig `yaml:"character"`
	Camera    CameraConfig    `yaml:"camera"`
	Light     LightConfig     `yaml:"light"`
	Ground    GroundConfig    `yaml:"ground"`
	Ambient   AmbientConfig   `yaml:"ambient"`
	Controls  ControlsConfig  `yaml:"controls"`
}

// CharacterConfig places the character.
type CharacterConfig struct {
	Scale float32 `yaml:"scale"`
}

// CameraConfig places the camera.
type CameraConfig struct {
	Position mgl32.Vec3 `yaml:"position"`
	Target   mgl32.Vec3 `yaml:"target"`
}

// LightConfig describes the directional light and its shadow cascades.
type LightConfig struct {
	Color   mgl32.Vec3 `yaml:"color"`
	Shadows bool       `yaml:"shadows"`
	// Rotation holds euler angles in radians applied in Z, Y, X order.
	Rotation             mgl32.Vec3 `yaml:"rotation"`
	FirstCascadeFarBound float32    `yaml:"first_cascade_far_bound"`
	MaximumDistance      float32    `yaml:"maximum_distance"`
}

// GroundConfig describes the ground plane.
type GroundConfig struct {
	Size  float32    `yaml:"size"`
	Color mgl32.Vec3 `yaml:"color"`
}

// AmbientConfig describes the ambient light resource.
type AmbientConfig struct {
	Brightness float32 `yaml:"brightness"`
}

// ControlsConfig holds the step sizes of the keyboard controls.
type ControlsConfig struct {
	SpeedUp    float32       `yaml:"speed_up"`
	SpeedDown  float32       `yaml:"speed_down"`
	SeekStep   float32       `yaml:"seek_step"`
	Transition time.Duration `yaml:"transition"`
}

// DefaultConfig decodes the config compiled into the binary.
//
// Returns:
//   - *Config: the default config
//   - error: an error if the embedded document is invalid
func DefaultConfig() (*Config, error) {
	return LoadConfig(defaultConfigData)
}

// LoadConfig decodes a YAML document, fills unset step sizes and scales with their defaults and
// validates the result.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *Config: the decoded config
//   - error: a decode error, or ErrInvalidConfig wrapped with the failing rule
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode viewer config: %w", err)
	}

	cfg.Character.Scale = common.Coalesce(cfg.Character.Scale, 1)
	cfg.Ambient.Brightness = common.Coalesce(cfg.Ambient.Brightness, light.DefaultAmbientBrightness)
	cfg.Controls.SpeedUp = common.Coalesce(cfg.Controls.SpeedUp, 1.2)
	cfg.Controls.SpeedDown = common.Coalesce(cfg.Controls.SpeedDown, 0.8)
	cfg.Controls.SeekStep = common.Coalesce(cfg.Controls.SeekStep, 0.1)
	cfg.Controls.Transition = common.Coalesce(cfg.Controls.Transition, 250*time.Millisecond)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Scene == "":
		return fmt.Errorf("%w: scene is empty", ErrInvalidConfig)
	case len(c.Animations) > 0 && (c.DefaultAnimation < 0 || c.DefaultAnimation >= len(c.Animations)):
		return fmt.Errorf("%w: default animation %d is outside the %d registered clips",
			ErrInvalidConfig, c.DefaultAnimation, len(c.Animations))
	case c.Ground.Size < 0:
		return fmt.Errorf("%w: ground size %g is negative", ErrInvalidConfig, c.Ground.Size)
	}
	for i, p := range c.Animations {
		if p == "" {
			return fmt.Errorf("%w: animation %d has an empty path", ErrInvalidConfig, i)
		}
	}
	if _, err := c.Cascades(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Cascades builds the shadow cascade configuration of the light. Unset distances keep the
// builder defaults.
//
// Returns:
//   - light.CascadeShadowConfig: the cascades
//   - error: light.ErrInvalidCascadeConfig wrapped with the failing rule
func (c *Config) Cascades() (light.CascadeShadowConfig, error) {
	b := light.NewCascadeShadowConfigBuilder()
	b.FirstCascadeFarBound = common.Coalesce(c.Light.FirstCascadeFarBound, b.FirstCascadeFarBound)
	b.MaximumDistance = common.Coalesce(c.Light.MaximumDistance, b.MaximumDistance)
	return b.Build()
}
