package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	locations, err := s.GetLocations()
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	config.Locations = locations

	meteo, err := s.GetMeteoConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load meteo config: %w", err)
	}
	config.Meteo = *meteo

	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	return config, nil
}

// GetLocations returns location configurations from the database
func (s *SQLiteProvider) GetLocations() ([]LocationData, error) {
	query := `
		SELECT name, latitude, longitude, timezone
		FROM locations
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []LocationData
	for rows.Next() {
		var location LocationData
		var timezone sql.NullString

		if err := rows.Scan(&location.Name, &location.Latitude, &location.Longitude, &timezone); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		if timezone.Valid {
			location.Timezone = timezone.String
		}

		locations = append(locations, location)
	}

	return locations, rows.Err()
}

// GetMeteoConfig returns the meteo client configuration from the database
func (s *SQLiteProvider) GetMeteoConfig() (*MeteoData, error) {
	query := `
		SELECT archive_endpoint, forecast_endpoint, cache_path, fetch_interval
		FROM meteo_config
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	meteo := &MeteoData{}
	var archiveEndpoint, forecastEndpoint, cachePath, fetchInterval sql.NullString

	err := s.db.QueryRow(query).Scan(&archiveEndpoint, &forecastEndpoint, &cachePath, &fetchInterval)
	if err == sql.ErrNoRows {
		return meteo, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query meteo config: %w", err)
	}

	if archiveEndpoint.Valid {
		meteo.ArchiveEndpoint = archiveEndpoint.String
	}
	if forecastEndpoint.Valid {
		meteo.ForecastEndpoint = forecastEndpoint.String
	}
	if cachePath.Valid {
		meteo.CachePath = cachePath.String
	}
	if fetchInterval.Valid {
		meteo.FetchInterval = fetchInterval.String
	}

	return meteo, nil
}

// GetStorageConfig returns storage configuration from the database
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	query := `
		SELECT timescaledb_connection_string
		FROM storage_config
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	storage := &StorageData{}
	var connectionString sql.NullString

	err := s.db.QueryRow(query).Scan(&connectionString)
	if err == sql.ErrNoRows {
		return storage, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query storage config: %w", err)
	}

	if connectionString.Valid && connectionString.String != "" {
		storage.TimescaleDB = &TimescaleDBData{
			ConnectionString: connectionString.String,
		}
	}

	return storage, nil
}

// GetControllers returns controller configurations from the database
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	query := `
		SELECT type, rest_cert, rest_key, rest_port, rest_listen_addr
		FROM controllers
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
		ORDER BY type
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query controllers: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData
	for rows.Next() {
		var controller ControllerData
		var cert, key, listenAddr sql.NullString
		var port sql.NullInt64

		if err := rows.Scan(&controller.Type, &cert, &key, &port, &listenAddr); err != nil {
			return nil, fmt.Errorf("failed to scan controller row: %w", err)
		}

		if controller.Type == "rest" {
			rest := &RESTServerData{}
			if cert.Valid {
				rest.Cert = cert.String
			}
			if key.Valid {
				rest.Key = key.String
			}
			if port.Valid {
				rest.Port = int(port.Int64)
			}
			if listenAddr.Valid {
				rest.ListenAddr = listenAddr.String
			}
			controller.RESTServer = rest
		}

		controllers = append(controllers, controller)
	}

	return controllers, rows.Err()
}

// IsReadOnly returns false since SQLite configurations can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
