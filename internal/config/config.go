// Package config loads CLI settings from ".sqlcrit.yaml", ".env" and
// SQLCRIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "SQLCRIT"
	FileName  = ".sqlcrit"
	DotEnv    = ".env"
)

// Config holds settings shared by all commands.
type Config struct {
	Format  string
	Verbose bool
}

// Load reads configuration through fs. Precedence, highest first:
// environment, ".env", config file, defaults. Missing files are not errors.
func Load(fs afero.Fs) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("format", "text")
	v.SetDefault("verbose", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := loadDotEnv(fs, v); err != nil {
		return nil, err
	}

	return &Config{
		Format:  v.GetString("format"),
		Verbose: v.GetBool("verbose"),
	}, nil
}

// Applies SQLCRIT_* entries from ".env" unless the real environment has them.
func loadDotEnv(fs afero.Fs, v *viper.Viper) error {
	file, err := fs.Open(DotEnv)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", DotEnv, err)
	}
	defer file.Close()

	vars, err := godotenv.Parse(file)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", DotEnv, err)
	}

	for key, val := range vars {
		name, ok := strings.CutPrefix(key, EnvPrefix+"_")
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		v.Set(strings.ToLower(name), val)
	}
	return nil
}
