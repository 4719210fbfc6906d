package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxResources is how many harvestable resource references a fauna/flora
// entry can carry (resource1..resource6 columns in the database).
const MaxResources = 6

// Dinosaur is one fauna catalog entry. Resources reference base item names.
type Dinosaur struct {
	Name        string   `yaml:"name" json:"name"`
	Diet        string   `yaml:"diet" json:"diet"`
	Aggression  int      `yaml:"aggression" json:"aggression"`
	Habitat     string   `yaml:"habitat" json:"habitat"`
	Description string   `yaml:"description" json:"description"`
	Resources   []string `yaml:"resources" json:"resources"`
}

// Plant is one flora catalog entry.
type Plant struct {
	Name        string   `yaml:"name" json:"name"`
	Edible      bool     `yaml:"edible" json:"edible"`
	Toxic       bool     `yaml:"toxic" json:"toxic"`
	Habitat     string   `yaml:"habitat" json:"habitat"`
	Description string   `yaml:"description" json:"description"`
	Resources   []string `yaml:"resources" json:"resources"`
}

// Bestiary holds the fauna/flora catalog.
type Bestiary struct {
	Dinosaurs []Dinosaur
	Plants    []Plant
}

type bestiaryFile struct {
	Dinosaurs []Dinosaur `yaml:"dinosaurs"`
	Plants    []Plant    `yaml:"plants"`
}

// LoadBestiary loads dinosaur and plant YAML files and validates their
// resource references against the item catalog.
func LoadBestiary(dinoPath, plantPath string, catalog *Catalog) (*Bestiary, error) {
	b := &Bestiary{}

	var df bestiaryFile
	if err := readYAML(dinoPath, &df); err != nil {
		return nil, fmt.Errorf("dinosaurs: %w", err)
	}
	b.Dinosaurs = df.Dinosaurs

	var pf bestiaryFile
	if err := readYAML(plantPath, &pf); err != nil {
		return nil, fmt.Errorf("plants: %w", err)
	}
	b.Plants = pf.Plants

	for _, d := range b.Dinosaurs {
		if err := checkResources(d.Name, d.Resources, catalog); err != nil {
			return nil, err
		}
	}
	for _, p := range b.Plants {
		if err := checkResources(p.Name, p.Resources, catalog); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func readYAML(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func checkResources(owner string, resources []string, catalog *Catalog) error {
	if len(resources) > MaxResources {
		return fmt.Errorf("%s: %d resources, max %d", owner, len(resources), MaxResources)
	}
	for _, r := range resources {
		if catalog.Get(r) == nil {
			return fmt.Errorf("%s: unknown resource item %q", owner, r)
		}
	}
	return nil
}
