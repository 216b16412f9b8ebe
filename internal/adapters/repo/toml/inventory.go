// Package toml persists the reconciled inventory snapshot as a TOML
// file, so successive CLI invocations observe the rows earlier ones
// reconciled.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/openhvx/hvxctl/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName        = "config"
	configType        = "toml"
	inventoryPathKey  = "inventory.path"
	inventoryFileMode = 0o600
	inventoryDirMode  = 0o700
	configDirName     = ".openhvx"
	inventoryFileName = "inventory.toml"
	tempFilePattern   = ".inventory-*.toml.tmp"
)

type Repository struct {
	path string
	mu   *sync.RWMutex
}

// Concurrent repositories pointing at the same file share one lock.
var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.InventoryRepository = (*Repository)(nil)

// NewRepository resolves the snapshot path from the config file
// (inventory.path), defaulting to ~/.openhvx/inventory.toml.
func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDirName, inventoryFileName)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
	cfg.SetDefault(inventoryPathKey, defaultPath)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	path := cfg.GetString(inventoryPathKey)
	if path == "" {
		return nil, errors.New("inventory path is empty")
	}
	path, err = normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Load(ctx context.Context) ([]domain.InventoryRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	rows := make([]domain.InventoryRow, 0, len(file.Rows))
	for _, entry := range file.Rows {
		rows = append(rows, fromSchema(entry))
	}

	return rows, nil
}

func (r *Repository) Save(ctx context.Context, rows []domain.InventoryRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file := fileSchema{Version: currentSchemaVersion}
	file.Rows = make([]rowSchema, 0, len(rows))
	for _, row := range rows {
		file.Rows = append(file.Rows, toSchema(row))
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read inventory file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode inventory file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), inventoryDirMode); err != nil {
		return fmt.Errorf("create inventory directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode inventory file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp inventory file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("write temp inventory file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("close temp inventory file: %w", err)
	}
	if err := os.Chmod(tempPath, inventoryFileMode); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("chmod temp inventory file: %w", err)
	}
	if err := os.Rename(tempPath, r.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replace inventory file: %w", err)
	}

	return nil
}

func toSchema(row domain.InventoryRow) rowSchema {
	return rowSchema{
		AgentID:    row.AgentID,
		GUID:       row.GUID,
		ID:         row.ID,
		Name:       row.Name,
		State:      string(row.State),
		CPU:        row.CPU,
		RAMMB:      row.RAMMB,
		Switches:   row.Switches,
		IPs:        row.IPs,
		DiskProvMB: row.DiskProvMB,
		DiskUsedMB: row.DiskUsedMB,
	}
}

func fromSchema(entry rowSchema) domain.InventoryRow {
	return domain.InventoryRow{
		AgentID:    entry.AgentID,
		GUID:       entry.GUID,
		ID:         entry.ID,
		Name:       entry.Name,
		State:      domain.VMState(entry.State),
		CPU:        entry.CPU,
		RAMMB:      entry.RAMMB,
		Switches:   entry.Switches,
		IPs:        entry.IPs,
		DiskProvMB: entry.DiskProvMB,
		DiskUsedMB: entry.DiskUsedMB,
	}
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve inventory path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
