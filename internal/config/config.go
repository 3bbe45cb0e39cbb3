package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// SheetMapping binds one workbook sheet to a department direction.
// HeaderRow is the zero-based row index of the header row, which lets
// sheets with multi-row titles keep their headers off row 0.
type SheetMapping struct {
	Name      string `toml:"name"`
	Direction string `toml:"direction"`
	HeaderRow int    `toml:"header_row"`
}

// AppConfig is the application configuration.
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Source   SourceConfig   `toml:"source"`
	Business BusinessConfig `toml:"business"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig data directory settings.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// SourceConfig describes the tracked workbook layout.
type SourceConfig struct {
	DefaultWorkbook string         `toml:"default_workbook"` // source id used when a request names none
	RosterSheet     string         `toml:"roster_sheet"`     // optional name -> role sheet
	Sheets          []SheetMapping `toml:"sheets"`
	FetchLimit      int            `toml:"fetch_limit"` // max sheets fetched concurrently
}

// BusinessConfig classification and caching knobs.
type BusinessConfig struct {
	CacheTTLSeconds int      `toml:"cache_ttl_seconds"`
	CompareDays     int      `toml:"compare_days"`
	Companies       []string `toml:"companies"` // executor affiliations for the byCompany view
}

// LoadConfigInfo metadata about how the config was loaded.
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Source: SourceConfig{
			DefaultWorkbook: "main",
			RosterSheet:     "Команда",
			Sheets: []SheetMapping{
				{Name: "Web", Direction: "Web", HeaderRow: 1},
				{Name: "Mobile", Direction: "Mobile", HeaderRow: 1},
				{Name: "Design", Direction: "Design", HeaderRow: 1},
			},
			FetchLimit: 3,
		},
		Business: BusinessConfig{
			CacheTTLSeconds: 60,
			CompareDays:     7,
			Companies:       []string{"Вебпрактика", "Диджитал Лаб"},
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir returns the directory holding the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo loads config.toml from the executable's directory and
// reports load metadata. A missing file yields the defaults.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// Env overrides, used by E2E runs.
	if v := os.Getenv("PMDASH_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("PMDASH_DEFAULT_WORKBOOK"); v != "" {
		config.Source.DefaultWorkbook = v
	}

	Normalize(config)

	return config, info, nil
}

// LoadConfig loads config.toml from the executable's directory.
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig writes the config back to config.toml.
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Normalize clamps defective values back to usable defaults.
func Normalize(cfg *AppConfig) {
	if cfg.Source.FetchLimit <= 0 {
		cfg.Source.FetchLimit = 3
	}
	if cfg.Business.CacheTTLSeconds <= 0 {
		cfg.Business.CacheTTLSeconds = 60
	}
	if cfg.Business.CompareDays <= 0 {
		cfg.Business.CompareDays = 7
	}
}

// EnsureDataDir creates the data directory tree next to the executable and
// returns its absolute path.
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"uploads", "backups"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath builds a path inside the data directory.
func GetDataPath(config *AppConfig, subdir, filename string) string {
	exeDir, _ := GetExeDir()
	if exeDir == "" {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir, subdir, filename)
}
