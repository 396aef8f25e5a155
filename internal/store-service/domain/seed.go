package domain

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

// Seed is the initial content of the store. Users are keyed by user key.
type Seed struct {
	Users    map[string]User `json:"users"`
	Products []Document      `json:"products"`
}

//go:embed demo_seed.json
var demoSeed []byte

// DemoSeed returns the built-in sample data.
func DemoSeed() (Seed, error) {
	return ParseSeed(demoSeed)
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) (Seed, error) {
	var s Seed
	if err := json.Unmarshal(raw, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return s, nil
}
