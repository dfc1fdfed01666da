// Package targets carries the catalog of supported chips and the machine
// parameters the simulation needs for each of them.
package targets

import (
	_ "embed"
	"errors"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed targets.yaml
var rawTargets []byte

var targets Targets

var (
	ErrUnknownChip   = errors.New("unknown chip")
	ErrUnknownSeries = errors.New("unknown series")
)

func All() Targets {
	return targets
}

type Targets []TargetInfo
type TargetInfo struct {
	Series    string   `yaml:"series"`
	Chips     []string `yaml:"chips"`
	Cores     int      `yaml:"cores"`
	CPUFreqHz uint32   `yaml:"cpuFreqHz"`
	Tags      []string `yaml:"tags"`
}

// HasTag reports whether the target carries the given feature tag.
func (t TargetInfo) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

func (t Targets) FindBySeries(name string) (TargetInfo, error) {
	for _, target := range t {
		if target.Series == strings.ToLower(name) {
			return target, nil
		}
	}
	return TargetInfo{}, ErrUnknownSeries
}

func (t Targets) FindByChip(name string) (TargetInfo, error) {
	for _, target := range t {
		if slices.Contains(target.Chips, strings.ToLower(name)) {
			return target, nil
		}
	}
	return TargetInfo{}, ErrUnknownChip
}

func init() {
	if err := yaml.Unmarshal(rawTargets, &targets); err != nil {
		panic(err)
	}
}
