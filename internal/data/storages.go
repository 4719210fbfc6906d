package data

import "fmt"

// StorageSpec declares one shared world container to provision at boot.
type StorageSpec struct {
	Label string `yaml:"label"`
	Cols  int    `yaml:"cols"`
	Rows  int    `yaml:"rows"`
}

type storageListFile struct {
	Storages []StorageSpec `yaml:"storages"`
}

// LoadStorageSpecs loads the external storage definitions.
func LoadStorageSpecs(path string) ([]StorageSpec, error) {
	var f storageListFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	for i, s := range f.Storages {
		if s.Label == "" {
			return nil, fmt.Errorf("storage %d: missing label", i)
		}
		if s.Cols < 1 || s.Rows < 1 {
			return nil, fmt.Errorf("storage %q: bad size %dx%d", s.Label, s.Cols, s.Rows)
		}
	}
	return f.Storages, nil
}
