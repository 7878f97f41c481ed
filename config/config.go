package config

import (
	"os"
	"path"
	"runtime"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/daedaleanai/mkninja/log"
	"github.com/daedaleanai/mkninja/util"
)

// Config holds workspace-level defaults for the generator knobs.
// Command-line flags override these values.
type Config struct {
	NinjaDir    string `yaml:"ninja_dir"`
	NinjaSuffix string `yaml:"ninja_suffix"`
	GomaDir     string `yaml:"goma_dir"`
	NumJobs     int    `yaml:"num_jobs"`

	DetectAndroidEcho bool `yaml:"detect_android_echo"`
	GenRegenRule      bool `yaml:"gen_regen_rule"`
	ErrorOnEnvChange  bool `yaml:"error_on_env_change"`
}

var environment map[string]string
var config *Config

const configFileName = "config.yaml"

func init() {
	environment = make(map[string]string)
	for _, v := range os.Environ() {
		parts := strings.SplitN(v, "=", 2)
		if len(parts) == 2 {
			environment[parts[0]] = parts[1]
		}
	}
}

func defaultConfig() Config {
	return Config{
		NinjaDir:     ".",
		NumJobs:      runtime.NumCPU(),
		GenRegenRule: true,
	}
}

func getConfigDir() (string, bool) {
	if configDir, ok := environment["MKNINJA_CONFIG_DIR"]; ok {
		return configDir, true
	}

	if xdgConfigHome, ok := environment["XDG_CONFIG_HOME"]; ok {
		return path.Join(xdgConfigHome, "mkninja"), true
	}

	home, err := homedir.Dir()
	if err != nil {
		log.Debug("Unable to locate the home directory: %s", err)
		return "", false
	}
	return path.Join(home, ".config", "mkninja"), true
}

func loadConfiguration() Config {
	config := defaultConfig()

	configDir, ok := getConfigDir()
	if !ok {
		log.Debug("Unable to find the mkninja config directory. Using default configuration")
		return config
	}

	configFilePath := path.Join(configDir, configFileName)
	if !util.FileExists(configFilePath) {
		log.Debug("No configuration file at '%s'. Using default configuration", configFilePath)
		return config
	}
	if err := yaml.Unmarshal(util.ReadFile(configFilePath), &config); err != nil {
		log.Debug("Error reading configuration file at '%s': %s. Using default configuration", configFilePath, err)
		return defaultConfig()
	}

	log.Debug("Loaded configuration from '%s'", configFilePath)
	return config
}

// GetConfig returns the workspace configuration, loading it on first use.
func GetConfig() Config {
	if config == nil {
		loadedConfig := loadConfiguration()
		config = &loadedConfig
	}

	return *config
}
