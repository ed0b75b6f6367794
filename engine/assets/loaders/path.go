package loaders

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/path"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

// PathLoader reads a waypoint file. params may be a []path.Option.
// Data is a *path.Path.
type PathLoader struct{}

func (pl *PathLoader) Load(filename string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open path `%s`", filename)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	var opts []path.Option
	if params != nil {
		o, ok := params.([]path.Option)
		if !ok {
			return nil, errors.Errorf("path loader: unexpected params %T", params)
		}
		opts = o
	}

	p, err := path.Load(f, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "load path `%s`", filename)
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypePath,
		Name:     filepath.Base(filename),
		FullPath: filename,
		DataSize: uint64(info.Size()),
		Data:     p,
	}, nil
}

func (pl *PathLoader) Unload(*metadata.Resource) error {
	return nil
}
