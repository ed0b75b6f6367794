package loaders

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
	"gopkg.in/yaml.v3"
)

// RigLoader decodes a YAML rig description. Data is a *metadata.RigConfig.
type RigLoader struct{}

func (rl *RigLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read rig `%s`", path)
	}

	rig, err := ParseRig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "rig `%s`", path)
	}
	if rig.Name == "" {
		rig.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeRig,
		Name:     rig.Name,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     rig,
	}, nil
}

func (rl *RigLoader) Unload(*metadata.Resource) error {
	return nil
}

func ParseRig(data []byte) (*metadata.RigConfig, error) {
	rig := &metadata.RigConfig{}
	if err := yaml.Unmarshal(data, rig); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	if err := rig.Validate(); err != nil {
		return nil, err
	}
	return rig, nil
}
