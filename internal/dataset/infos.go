package dataset

import (
	"fmt"

	"github.com/flaglog/flaglog/pkg/fsutil"
	"github.com/flaglog/flaglog/pkg/jsonutil"
	"github.com/flaglog/flaglog/pkg/model"
)

// InfosFilename is the metadata document name inside the dataset repository.
const InfosFilename = "dataset_infos.json"

// LogFilename is the flag log name inside the dataset repository.
const LogFilename = "data.csv"

// WriteInfos writes the dataset metadata document. It is written once, when
// the log is first created, and never updated afterwards: if the caller's
// component list changes mid-run the document silently goes stale (known
// limitation).
func WriteInfos(path string, infos model.DatasetInfos) error {
	data, err := jsonutil.CanonicalMarshal(infos)
	if err != nil {
		return fmt.Errorf("marshal dataset infos: %w", err)
	}
	return fsutil.AtomicWrite(path, data, 0644)
}
