// Package config handles viewer configuration loading and management.
package config

import (
	"math"
	"time"
)

// Config holds all viewer settings.
type Config struct {
	Window       WindowConfig       `yaml:"window"`
	Camera       CameraConfig       `yaml:"camera"`
	Gesture      GestureConfig      `yaml:"gesture"`
	Articulation ArticulationConfig `yaml:"articulation"`
	Assets       AssetsConfig       `yaml:"assets"`
	Scene        SceneConfig        `yaml:"scene"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title         string  `yaml:"title"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Fullscreen    bool    `yaml:"fullscreen"`
	VSync         bool    `yaml:"vsync"`
	Font          string  `yaml:"font"` // empty picks a system font
	FontSize      float32 `yaml:"font_size"`
	ScreenshotDir string  `yaml:"screenshot_dir"`
}

// CameraConfig holds orbit rig tuning.
type CameraConfig struct {
	MinRadius       float32 `yaml:"min_radius"`
	MaxRadius       float32 `yaml:"max_radius"`
	StartRadius     float32 `yaml:"start_radius"`
	BaseHeight      float32 `yaml:"base_height"`
	HeightFactor    float32 `yaml:"height_factor"`
	LookAtY         float32 `yaml:"look_at_y"`
	Smoothing       float32 `yaml:"smoothing"`        // position follow rate, 1/s
	InertiaDecay    float32 `yaml:"inertia_decay"`    // yaw velocity decay, 1/s
	MaxYawVelocity  float32 `yaml:"max_yaw_velocity"` // rad/s
	VelocityEpsilon float32 `yaml:"velocity_epsilon"` // rad/s
	FOV             float32 `yaml:"fov"`              // degrees
}

// GestureConfig holds pan/pinch recognition thresholds.
type GestureConfig struct {
	PanThreshold   float32 `yaml:"pan_threshold"`   // px
	PanDominance   float32 `yaml:"pan_dominance"`   // |dx| must exceed this times |dy|
	TapSlop        float32 `yaml:"tap_slop"`        // px
	YawSensitivity float32 `yaml:"yaw_sensitivity"` // rad/px
	WheelZoom      float32 `yaml:"wheel_zoom"`      // scale per wheel notch
}

// ArticulationConfig holds door and drawer animation settings.
type ArticulationConfig struct {
	DoorRate      float32 `yaml:"door_rate"`
	DrawerRate    float32 `yaml:"drawer_rate"`
	DoorOpenAngle float32 `yaml:"door_open_angle"` // radians
	DrawerTravel  float32 `yaml:"drawer_travel"`
}

// AssetsConfig holds model source settings.
type AssetsConfig struct {
	Root                string                 `yaml:"root"`
	LoadTimeout         time.Duration          `yaml:"load_timeout"`
	NormalizationTarget float32                `yaml:"normalization_target"`
	ContainerURI        string                 `yaml:"container_uri"`
	Models              map[string]ModelConfig `yaml:"models"`
	Minio               MinioConfig            `yaml:"minio"`
}

// ModelConfig overrides the descriptor of one asset key.
type ModelConfig struct {
	URI      string     `yaml:"uri"`
	Target   float32    `yaml:"target"`
	Scale    float32    `yaml:"scale"`
	Rotation [3]float32 `yaml:"rotation"`
	Offset   [3]float32 `yaml:"offset"`
}

// MinioConfig holds object storage credentials for s3:// model URIs.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// SceneConfig holds inventory settings.
type SceneConfig struct {
	InventoryFile string       `yaml:"inventory_file"`
	MaxObjects    int          `yaml:"max_objects"`
	Filter        FilterConfig `yaml:"filter"`
}

// FilterConfig picks the objects shown at startup.
type FilterConfig struct {
	Query        string `yaml:"query"`
	Category     string `yaml:"category"` // empty shows every category
	SelectedOnly bool   `yaml:"selected_only"`
	Sort         string `yaml:"sort"` // name or expiry
}

// MetricsConfig holds the optional Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "Fridge Viewer",
			Width:         1280,
			Height:        720,
			VSync:         true,
			FontSize:      16,
			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			MinRadius:       2,
			MaxRadius:       7,
			StartRadius:     3.4,
			BaseHeight:      0.6,
			HeightFactor:    0.18,
			LookAtY:         0.2,
			Smoothing:       8,
			InertiaDecay:    4.8,
			MaxYawVelocity:  6,
			VelocityEpsilon: 0.01,
			FOV:             45,
		},
		Gesture: GestureConfig{
			PanThreshold:   10,
			PanDominance:   1.2,
			TapSlop:        10,
			YawSensitivity: 0.008,
			WheelZoom:      0.1,
		},
		Articulation: ArticulationConfig{
			DoorRate:      10,
			DrawerRate:    12,
			DoorOpenAngle: math.Pi / 2,
			DrawerTravel:  0.42,
		},
		Assets: AssetsConfig{
			Root:                "assets",
			LoadTimeout:         10 * time.Second,
			NormalizationTarget: 0.22,
		},
		Scene: SceneConfig{
			MaxObjects: 24,
			Filter:     FilterConfig{Sort: "name"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate resets values that would break the viewer back to their defaults.
func (c *Config) Validate() {
	def := Default()

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window.Width, c.Window.Height = def.Window.Width, def.Window.Height
	}
	positive(&c.Window.FontSize, def.Window.FontSize)

	cam := &c.Camera
	if cam.MinRadius <= 0 || cam.MaxRadius <= 0 || cam.MinRadius > cam.MaxRadius {
		cam.MinRadius, cam.MaxRadius = def.Camera.MinRadius, def.Camera.MaxRadius
	}
	if cam.StartRadius < cam.MinRadius || cam.StartRadius > cam.MaxRadius {
		cam.StartRadius = min(max(def.Camera.StartRadius, cam.MinRadius), cam.MaxRadius)
	}
	positive(&cam.Smoothing, def.Camera.Smoothing)
	positive(&cam.InertiaDecay, def.Camera.InertiaDecay)
	positive(&cam.MaxYawVelocity, def.Camera.MaxYawVelocity)
	positive(&cam.VelocityEpsilon, def.Camera.VelocityEpsilon)
	if cam.FOV <= 0 || cam.FOV >= 180 {
		cam.FOV = def.Camera.FOV
	}

	positive(&c.Gesture.PanThreshold, def.Gesture.PanThreshold)
	positive(&c.Gesture.PanDominance, def.Gesture.PanDominance)
	positive(&c.Gesture.TapSlop, def.Gesture.TapSlop)
	positive(&c.Gesture.YawSensitivity, def.Gesture.YawSensitivity)
	positive(&c.Gesture.WheelZoom, def.Gesture.WheelZoom)

	positive(&c.Articulation.DoorRate, def.Articulation.DoorRate)
	positive(&c.Articulation.DrawerRate, def.Articulation.DrawerRate)
	positive(&c.Articulation.DoorOpenAngle, def.Articulation.DoorOpenAngle)
	positive(&c.Articulation.DrawerTravel, def.Articulation.DrawerTravel)

	if c.Assets.LoadTimeout <= 0 {
		c.Assets.LoadTimeout = def.Assets.LoadTimeout
	}
	positive(&c.Assets.NormalizationTarget, def.Assets.NormalizationTarget)

	if c.Scene.MaxObjects <= 0 {
		c.Scene.MaxObjects = def.Scene.MaxObjects
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Logging.Level = def.Logging.Level
	}
	if s := c.Scene.Filter.Sort; s != "name" && s != "expiry" {
		c.Scene.Filter.Sort = def.Scene.Filter.Sort
	}
}

func positive(v *float32, fallback float32) {
	if !(*v > 0) || math.IsInf(float64(*v), 0) {
		*v = fallback
	}
}
