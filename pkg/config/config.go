package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"github.com/go-playground/validator/v10"
)

const (
	defaultConfigDir  = "config"
	defaultConfigName = "settings.yaml"
)

func Load(configDir string, name string, config interface{}) error {
	if configDir == "" {
		configDir = defaultConfigDir
	}

	if name == "" {
		name = defaultConfigName
	}

	f, err := getConfigFile(configDir, name)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(f)
	if err != nil {
		return err
	}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return fmt.Errorf("error parsing config file %s: %w", f, err)
	}

	return newValidator().Struct(config)
}

func getConfigFile(configDir string, name string) (string, error) {
	path := path.Join(configDir, name)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("config file %s does not exist", path)
	} else if err != nil {
		return "", fmt.Errorf("error accessing config file %s: %w", path, err)
	}

	return path, nil
}

// newValidator returns a validator that also understands the "basename" tag:
// a plain file name with no directory part.
func newValidator() *validator.Validate {
	validate := validator.New()
	err := validate.RegisterValidation("basename", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return name != "." && name != ".." && filepath.Base(name) == name
	})
	if err != nil {
		panic(fmt.Sprintf("registering basename validation: %v", err))
	}
	return validate
}
