package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// StorageConfig names the three directories whose contents are the only
// durable state of the service.
type StorageConfig struct {
	UploadDir  string `mapstructure:"upload_dir"`
	PreviewDir string `mapstructure:"preview_dir"`
	ImageDir   string `mapstructure:"image_dir"`
}

// AssetsConfig points at the fixed slide assets.
type AssetsConfig struct {
	// Background is the full-bleed slide background image. A missing
	// file is not an error; both renderers fall back to a flat fill.
	Background string `mapstructure:"background"`
	// Font optionally names a TTF file for the raster renderer.
	// Empty means the embedded Go Regular face.
	Font string `mapstructure:"font"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variable handling, e.g. server.address -> SERVER_ADDRESS
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8000")
	viper.SetDefault("storage.upload_dir", "uploads")
	viper.SetDefault("storage.preview_dir", "previews")
	viper.SetDefault("storage.image_dir", "images")
	viper.SetDefault("assets.background", "FirstPage.png")
	viper.SetDefault("assets.font", "")
	viper.SetDefault("cors.allowed_origins", []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	})

	err = viper.ReadInConfig()
	// A missing config file is fine; defaults and env vars carry the day.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
