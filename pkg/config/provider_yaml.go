package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// YAML-tagged mirror structs; the provider converts them to the internal
// JSON-tagged format on load.
type configYAML struct {
	Locations   []locationYAML   `yaml:"locations"`
	Meteo       meteoYAML        `yaml:"meteo,omitempty"`
	Storage     storageYAML      `yaml:"storage,omitempty"`
	Controllers []controllerYAML `yaml:"controllers,omitempty"`
}

type locationYAML struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  string  `yaml:"timezone"`
}

type meteoYAML struct {
	ArchiveEndpoint  string `yaml:"archive_endpoint,omitempty"`
	ForecastEndpoint string `yaml:"forecast_endpoint,omitempty"`
	CachePath        string `yaml:"cache_path,omitempty"`
	FetchInterval    string `yaml:"fetch_interval,omitempty"`
}

type storageYAML struct {
	TimescaleDB *timescaleDBYAML `yaml:"timescaledb,omitempty"`
}

type timescaleDBYAML struct {
	ConnectionString string `yaml:"connection-string"`
}

type controllerYAML struct {
	Type       string          `yaml:"type,omitempty"`
	RESTServer *restServerYAML `yaml:"rest,omitempty"`
}

type restServerYAML struct {
	Cert       string `yaml:"cert,omitempty"`
	Key        string `yaml:"key,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	ListenAddr string `yaml:"listen_addr,omitempty"`
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yamlConfig configYAML
	if err := yaml.Unmarshal(cfgFile, &yamlConfig); err != nil {
		return nil, err
	}

	config := &ConfigData{
		Locations:   make([]LocationData, len(yamlConfig.Locations)),
		Controllers: make([]ControllerData, len(yamlConfig.Controllers)),
		Meteo: MeteoData{
			ArchiveEndpoint:  yamlConfig.Meteo.ArchiveEndpoint,
			ForecastEndpoint: yamlConfig.Meteo.ForecastEndpoint,
			CachePath:        yamlConfig.Meteo.CachePath,
			FetchInterval:    yamlConfig.Meteo.FetchInterval,
		},
	}

	for i, loc := range yamlConfig.Locations {
		config.Locations[i] = LocationData{
			Name:      loc.Name,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Timezone:  loc.Timezone,
		}
	}

	if yamlConfig.Storage.TimescaleDB != nil {
		config.Storage.TimescaleDB = &TimescaleDBData{
			ConnectionString: yamlConfig.Storage.TimescaleDB.ConnectionString,
		}
	}

	for i, controller := range yamlConfig.Controllers {
		config.Controllers[i] = ControllerData{
			Type: controller.Type,
		}
		if controller.RESTServer != nil {
			config.Controllers[i].RESTServer = &RESTServerData{
				Cert:       controller.RESTServer.Cert,
				Key:        controller.RESTServer.Key,
				Port:       controller.RESTServer.Port,
				ListenAddr: controller.RESTServer.ListenAddr,
			}
		}
	}

	y.config = config
	return config, nil
}

// GetLocations returns location configurations
func (y *YAMLProvider) GetLocations() ([]LocationData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config.Locations, nil
}

// GetMeteoConfig returns the meteo client configuration
func (y *YAMLProvider) GetMeteoConfig() (*MeteoData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return &y.config.Meteo, nil
}

// GetStorageConfig returns storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// GetControllers returns controller configurations
func (y *YAMLProvider) GetControllers() ([]ControllerData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config.Controllers, nil
}

// IsReadOnly returns true since YAML files are read-only
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers
func (y *YAMLProvider) Close() error {
	return nil
}
