package flagging

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/flaglog/flaglog/internal/dataset"
	"github.com/flaglog/flaglog/internal/store"
	"github.com/flaglog/flaglog/pkg/errclass"
	"github.com/flaglog/flaglog/pkg/logging"
	"github.com/flaglog/flaglog/pkg/model"
	"github.com/flaglog/flaglog/pkg/pathutil"
)

// DefaultHubURL is the dataset hub used when none is configured.
const DefaultHubURL = "https://hub.flaglog.io"

// DatasetSaver is a Callback that mirrors each flagged sample to a remote
// versioned dataset repository: pull before every write, push after, one
// commit per flag.
type DatasetSaver struct {
	token      string
	name       string
	org        string
	private    bool
	hubURL     string
	remote     dataset.Remote
	serializer Serializer

	cfg    *session
	mirror *dataset.Mirror
	store  *store.Store
}

// DatasetOption configures a DatasetSaver.
type DatasetOption func(*DatasetSaver)

// WithOrganization saves the dataset under an organization instead of the
// token's user.
func WithOrganization(org string) DatasetOption {
	return func(d *DatasetSaver) { d.org = org }
}

// WithPrivate controls the repository's visibility.
func WithPrivate(private bool) DatasetOption {
	return func(d *DatasetSaver) { d.private = private }
}

// WithHub points the saver at a different dataset hub.
func WithHub(baseURL string) DatasetOption {
	return func(d *DatasetSaver) { d.hubURL = baseURL }
}

// WithRemote injects a Remote implementation directly, bypassing the hub
// client construction.
func WithRemote(r dataset.Remote) DatasetOption {
	return func(d *DatasetSaver) { d.remote = r }
}

// WithDatasetSerializer overrides the sample serializer.
func WithDatasetSerializer(s Serializer) DatasetOption {
	return func(d *DatasetSaver) { d.serializer = s }
}

// NewDatasetSaver returns an unconfigured DatasetSaver for the named
// dataset, authenticating with the given access token.
func NewDatasetSaver(token, name string, opts ...DatasetOption) *DatasetSaver {
	d := &DatasetSaver{
		token:      token,
		name:       name,
		hubURL:     DefaultHubURL,
		serializer: ValueSerializer{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Setup ensures the remote repository exists and binds a local mirror
// directory under dir to it.
func (d *DatasetSaver) Setup(components []model.Component, dir string) error {
	if d.cfg != nil {
		return fmt.Errorf("flagging: setup already called")
	}
	if err := pathutil.ValidateDatasetName(d.name); err != nil {
		return err
	}
	cfg, err := newSession(components, dir)
	if err != nil {
		return err
	}

	if d.remote == nil {
		d.remote = dataset.NewHubClient(d.hubURL, d.token, dataset.RepoSpec{
			Name:         d.name,
			Organization: d.org,
			Private:      d.private,
		})
	}

	mirror, err := dataset.OpenMirror(context.Background(), d.remote, filepath.Join(dir, d.name))
	if err != nil {
		return err
	}

	d.mirror = mirror
	d.store = store.New(mirror.Dir, store.WithFilename(dataset.LogFilename))
	d.cfg = cfg
	return nil
}

// Flag pulls the latest remote state, appends one record (creating the
// header and the infos document on first use), and pushes a commit whose
// message embeds the new total row count.
func (d *DatasetSaver) Flag(ctx context.Context, req Request) (int, error) {
	if d.cfg == nil {
		return 0, errclass.ErrNotInitialized.WithMessage("flag called before setup")
	}
	if req.RowIndex != nil {
		return 0, fmt.Errorf("flagging: dataset saver does not support relabeling")
	}

	if err := d.mirror.BeforeWrite(ctx); err != nil {
		return 0, err
	}
	isNew := !d.store.Exists()

	record, err := d.buildRecord(req)
	if err != nil {
		return 0, err
	}

	n, err := d.store.Append(d.header(), record)
	if err != nil {
		return 0, err
	}

	if isNew {
		infos := model.NewDatasetInfos(d.cfg.components)
		if err := dataset.WriteInfos(filepath.Join(d.mirror.Dir, dataset.InfosFilename), infos); err != nil {
			return 0, err
		}
	}

	if err := d.mirror.AfterWrite(ctx, dataset.CommitMessage(n)); err != nil {
		return 0, err
	}
	logging.Info("flag pushed", map[string]any{"dataset": d.name, "rows": n})
	return n, nil
}

// header lists one field per component, a preview field for media
// components, and the trailing flag field.
func (d *DatasetSaver) header() model.Header {
	header := make(model.Header, 0, len(d.cfg.components)*2+1)
	for i, c := range d.cfg.components {
		header = append(header, c.FieldName(i))
		if c.HasFilePreview() {
			header = append(header, c.FieldName(i)+" file")
		}
	}
	return append(header, store.FlagField)
}

func (d *DatasetSaver) buildRecord(req Request) (model.Record, error) {
	if len(req.Values) != len(d.cfg.components) {
		return nil, errclass.ErrSchema.WithMessagef("got %d values for %d components", len(req.Values), len(d.cfg.components))
	}
	record := make(model.Record, 0, len(req.Values)*2+1)
	for i, c := range d.cfg.components {
		cell := ""
		if req.Values[i] != nil {
			var err error
			cell, err = d.serializer.SaveFlagged(d.mirror.Dir, c.FieldName(i), req.Values[i])
			if err != nil {
				return nil, fmt.Errorf("serialize %s: %w", c.FieldName(i), err)
			}
		}
		record = append(record, cell)
		if c.HasFilePreview() {
			preview := ""
			if cell != "" {
				preview = d.mirror.RepoURL + "/resolve/main/" + cell
			}
			record = append(record, preview)
		}
	}
	return append(record, req.Label), nil
}
