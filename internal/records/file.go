package records

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// FileSource reads tables from fixture files in a directory. A table named
// "restaurants" is read from restaurants.yaml, restaurants.yml or
// restaurants.json, whichever exists first. Each file holds a list of
// field maps.
type FileSource struct {
	dir string
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// FetchAll decodes the fixture file for table.
func (s *FileSource) FetchAll(_ context.Context, table string) ([]Record, error) {
	if err := validIdent(table); err != nil {
		return nil, err
	}
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(s.dir, table+ext)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, eris.Wrapf(err, "records: read %s", path)
		}

		var rows []map[string]any
		if ext == ".json" {
			err = json.Unmarshal(data, &rows)
		} else {
			err = yaml.Unmarshal(data, &rows)
		}
		if err != nil {
			return nil, eris.Wrapf(err, "records: decode %s", path)
		}

		out := make([]Record, 0, len(rows))
		for _, row := range rows {
			out = append(out, Record(row))
		}
		return out, nil
	}
	return nil, eris.Errorf("records: no fixture for table %s in %s", table, s.dir)
}
