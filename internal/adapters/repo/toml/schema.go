package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int         `toml:"version"`
	Rows    []rowSchema `toml:"rows"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported inventory schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type rowSchema struct {
	AgentID    string   `toml:"agent_id"`
	GUID       string   `toml:"guid"`
	ID         string   `toml:"id"`
	Name       string   `toml:"name"`
	State      string   `toml:"state,omitempty"`
	CPU        int      `toml:"cpu,omitempty"`
	RAMMB      int64    `toml:"ram_mb,omitempty"`
	Switches   []string `toml:"switches,omitempty"`
	IPs        []string `toml:"ips,omitempty"`
	DiskProvMB int64    `toml:"disk_prov_mb,omitempty"`
	DiskUsedMB int64    `toml:"disk_used_mb,omitempty"`
}
