package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		wantErr           bool
		want              *Config
		wantErrorContains []string
	}{
		{
			name: "valid config file with custom values",
			configContent: `server:
  address: ":9090"
  cors_origin: "http://localhost:3000"
  shutdown_timeout: 5
store:
  backend: file
  file_path: custom/users.json
`,
			want: &Config{
				Server: ServerConfig{
					Address:         ":9090",
					CORSOrigin:      "http://localhost:3000",
					ShutdownTimeout: 5,
				},
				Store: StoreConfig{
					Backend:  StoreBackendFile,
					FilePath: "custom/users.json",
				},
				Database: DatabaseConfig{
					Host: "127.0.0.1",
					Port: 3306,
				},
			},
		},
		{
			name:          "defaults apply when the file is minimal",
			configContent: "server:\n  address: \":8081\"\n",
			want: &Config{
				Server: ServerConfig{
					Address:         ":8081",
					CORSOrigin:      "*",
					ShutdownTimeout: 10,
				},
				Store: StoreConfig{
					Backend:  StoreBackendFile,
					FilePath: filepath.Join("data", "users.json"),
				},
				Database: DatabaseConfig{
					Host: "127.0.0.1",
					Port: 3306,
				},
			},
		},
		{
			name: "mysql backend",
			configContent: `store:
  backend: mysql
database:
  host: db.internal
  port: 3307
  database: tailquest
`,
			want: &Config{
				Server: ServerConfig{
					Address:         ":8080",
					CORSOrigin:      "*",
					ShutdownTimeout: 10,
				},
				Store: StoreConfig{
					Backend:  StoreBackendMySQL,
					FilePath: filepath.Join("data", "users.json"),
				},
				Database: DatabaseConfig{
					Host:     "db.internal",
					Port:     3307,
					Database: "tailquest",
				},
			},
		},
		{
			name:              "unknown store backend",
			configContent:     "store:\n  backend: redis\n",
			wantErr:           true,
			wantErrorContains: []string{"backend"},
		},
		{
			name:              "invalid YAML format",
			configContent:     "server: [not a map",
			wantErr:           true,
			wantErrorContains: []string{"could not be read"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			cfgPath := filepath.Join(tmpDir, "config.yml")
			require.NoError(t, os.WriteFile(cfgPath, []byte(tt.configContent), 0644))

			got, err := Load(cfgPath)
			if tt.wantErr {
				require.Error(t, err)
				for _, contains := range tt.wantErrorContains {
					assert.ErrorContains(t, err, contains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	origWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", got.Server.Address)
	assert.Equal(t, StoreBackendFile, got.Store.Backend)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name              string
		cfg               Config
		wantErrorContains string
	}{
		{
			name: "valid",
			cfg: Config{
				Server: ServerConfig{Address: ":8080", CORSOrigin: "*"},
				Store:  StoreConfig{Backend: StoreBackendMemory},
			},
		},
		{
			name: "file backend requires a path",
			cfg: Config{
				Server: ServerConfig{Address: ":8080", CORSOrigin: "*"},
				Store:  StoreConfig{Backend: StoreBackendFile},
			},
			wantErrorContains: "file_path",
		},
		{
			name: "missing address",
			cfg: Config{
				Server: ServerConfig{CORSOrigin: "*"},
				Store:  StoreConfig{Backend: StoreBackendMemory},
			},
			wantErrorContains: "address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErrorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErrorContains)
		})
	}
}
