package catalog

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// Load reads a catalog JSON document from path on fs.
func Load(ctx context.Context, fs afero.Fs, path string) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrapf(err, "parse catalog %s", path)
	}
	return New(data), nil
}
