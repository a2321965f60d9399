// Package catalog models the designer-authored dungeon definitions: status
// effects and terrain hazards. The types are shared with the schema
// generator so editor tooling can validate authored files.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// StatusEntry describes one timed status effect.
type StatusEntry struct {
	ID             string `json:"id" jsonschema:"title=Status id,pattern=^[a-z_]+$,description=Engine-facing identifier for the status"`
	Decay          string `json:"decay,omitempty" jsonschema:"enum=linear,enum=percent,description=How the counter shrinks each environment tick"`
	PercentDivisor int    `json:"percentDivisor,omitempty" jsonschema:"minimum=1,description=Divisor for percent decay steps"`
	EndMessage     string `json:"endMessage,omitempty" jsonschema:"description=Narration shown when the status expires"`
}

// TerrainEntry describes one terrain kind and its hazard behavior.
type TerrainEntry struct {
	ID       string `json:"id" jsonschema:"title=Terrain id,pattern=^[a-z_]+$"`
	Passable bool   `json:"passable"`
	Instant  string `json:"instant,omitempty" jsonschema:"enum=fall,enum=lava,enum=web,enum=plate,enum=ignite,description=Instant effect applied on entry"`
	Gradual  string `json:"gradual,omitempty" jsonschema:"enum=damage,enum=heal,enum=drop,description=Time-scaled effect applied per turn"`
}

// FileDefinitions is the authored document: config/dungeon/definitions.json.
type FileDefinitions struct {
	Statuses []StatusEntry  `json:"statuses"`
	Terrain  []TerrainEntry `json:"terrain"`
}

// Load reads and validates an authored definitions file.
func Load(path string) (FileDefinitions, error) {
	var defs FileDefinitions
	data, err := os.ReadFile(path)
	if err != nil {
		return defs, fmt.Errorf("read definitions: %w", err)
	}
	if err := json.Unmarshal(data, &defs); err != nil {
		return defs, fmt.Errorf("decode definitions: %w", err)
	}
	if err := defs.Validate(); err != nil {
		return defs, err
	}
	return defs, nil
}

// Validate rejects duplicate or empty identifiers.
func (d FileDefinitions) Validate() error {
	seen := make(map[string]bool)
	for i, entry := range d.Statuses {
		if entry.ID == "" {
			return fmt.Errorf("statuses[%d]: missing id", i)
		}
		if seen["status:"+entry.ID] {
			return fmt.Errorf("statuses[%d]: duplicate id %q", i, entry.ID)
		}
		seen["status:"+entry.ID] = true
		if entry.Decay == "percent" && entry.PercentDivisor <= 0 {
			return fmt.Errorf("statuses[%d]: percent decay requires a divisor", i)
		}
	}
	for i, entry := range d.Terrain {
		if entry.ID == "" {
			return fmt.Errorf("terrain[%d]: missing id", i)
		}
		if seen["terrain:"+entry.ID] {
			return fmt.Errorf("terrain[%d]: duplicate id %q", i, entry.ID)
		}
		seen["terrain:"+entry.ID] = true
	}
	return nil
}
