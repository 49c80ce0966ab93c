// Package config loads the array layout — block size, coefficient mode,
// parity files, and data disks — from a YAML file given on the CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParityFile is one parity level's on-disk path.
type ParityFile struct {
	Path string `yaml:"path"`
}

// DiskConfig is one data disk's root directory.
type DiskConfig struct {
	Name string `yaml:"name"`
	Root string `yaml:"root"`
}

// Array is the whole-array configuration.
type Array struct {
	BlockSize int          `yaml:"block_size"`
	Mode      string       `yaml:"mode"`
	Parities  []ParityFile `yaml:"parities"`
	Disks     []DiskConfig `yaml:"disks"`
}

// Load reads and validates an Array from path.
func Load(path string) (*Array, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var a Array
	if err := yaml.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &a, nil
}

func (a *Array) validate() error {
	if a.BlockSize <= 0 || a.BlockSize%64 != 0 {
		return fmt.Errorf("block_size must be a positive multiple of 64, got %d", a.BlockSize)
	}
	switch a.Mode {
	case "cauchy", "vandermonde":
	default:
		return fmt.Errorf("mode must be \"cauchy\" or \"vandermonde\", got %q", a.Mode)
	}
	if len(a.Parities) == 0 {
		return fmt.Errorf("at least one parity file is required")
	}
	if len(a.Parities) > 6 {
		return fmt.Errorf("at most 6 parity levels are supported, got %d", len(a.Parities))
	}
	if a.Mode == "vandermonde" && len(a.Parities) > 3 {
		return fmt.Errorf("vandermonde mode supports at most 3 parity levels, got %d", len(a.Parities))
	}
	if len(a.Disks) == 0 {
		return fmt.Errorf("at least one data disk is required")
	}
	if len(a.Disks) > 251 {
		return fmt.Errorf("at most 251 data disks are supported, got %d", len(a.Disks))
	}
	return nil
}
