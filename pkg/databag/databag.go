package databag

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/provisio/databag/pkg/config"
	"github.com/provisio/databag/pkg/errors"
	"github.com/provisio/databag/pkg/logging"
	"github.com/provisio/databag/pkg/server"
	"github.com/provisio/databag/pkg/types"
)

// validName is the allowed character set for bag names and item ids
var validName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// DataBag is a named collection of items. Item documents are not stored
// on the bag itself; Load returns them as a separate mapping.
type DataBag struct {
	name string
}

// bagJSON is the wire shape of a DataBag
type bagJSON struct {
	Name string `json:"name"`
}

// New creates an empty, unnamed DataBag
func New() *DataBag {
	return &DataBag{}
}

// Name returns the bag's name, empty until SetName succeeds
func (b *DataBag) Name() string {
	return b.name
}

// SetName validates and stores the bag name. It accepts strings and
// string-derived values ([]byte, fmt.Stringer); anything else fails
// with TYPE_MISMATCH. Names must be non-empty and limited to letters,
// digits, dot, hyphen and underscore, or the call fails with
// INVALID_FORMAT. On failure the previous name is left unchanged.
func (b *DataBag) SetName(value interface{}) error {
	var name string
	switch v := value.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	case fmt.Stringer:
		name = v.String()
	default:
		return errors.Newf(errors.ErrTypeMismatch, "data bag name must be a string, got %T", value)
	}

	if !validName.MatchString(name) {
		return errors.Newf(errors.ErrInvalidFormat,
			"data bag name %q must match [A-Za-z0-9._-]+", name).
			WithDetail("name", name)
	}

	b.name = name
	return nil
}

// MarshalJSON implements json.Marshaler
func (b *DataBag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bagJSON{Name: b.name})
}

// UnmarshalJSON implements json.Unmarshaler, revalidating the name
func (b *DataBag) UnmarshalJSON(data []byte) error {
	var wire bagJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	return b.SetName(wire.Name)
}

// Save creates the bag on the configuration server. In dry-run mode no
// network call is made. A conflict response means the bag already
// exists and is treated as success; any other failure propagates. When
// client is nil, one is constructed from the configured server URL.
func (b *DataBag) Save(ctx context.Context, client *server.Client, cfg config.Config) error {
	logger := logging.GetLogger("databag")

	if cfg.DryRun {
		logger.Debug().Str("bag", b.name).Msg("Dry run, skipping data bag create")
		return nil
	}

	if client == nil {
		client = server.New(cfg.ServerURL)
	}

	if err := client.Post(ctx, "data", b); err != nil {
		if server.IsConflict(err) {
			logger.Debug().Str("bag", b.name).Msg("Data bag already exists")
			return nil
		}
		return err
	}

	logger.Info().Str("bag", b.name).Msg("Created data bag")
	return nil
}

// Load returns the items of the named bag as a mapping from item id to
// decoded document. Server mode passes the server's response through
// verbatim; solo mode merges items from every configured bag root in
// order, with later roots overwriting same-id items.
func Load(ctx context.Context, fsys types.FS, client *server.Client, cfg config.Config, name string) (map[string]interface{}, error) {
	if cfg.IsSolo() {
		return loadSolo(fsys, cfg, name)
	}

	if client == nil {
		client = server.New(cfg.ServerURL)
	}
	raw, err := client.Get(ctx, "data/"+name)
	if err != nil {
		return nil, err
	}
	return asMapping(raw, "data/"+name)
}

// List returns the available bag names as a self-referential mapping.
// Server mode passes the server's response through verbatim.
func List(ctx context.Context, fsys types.FS, client *server.Client, cfg config.Config) (map[string]interface{}, error) {
	if cfg.IsSolo() {
		return listSolo(fsys, cfg)
	}

	if client == nil {
		client = server.New(cfg.ServerURL)
	}
	raw, err := client.Get(ctx, "data")
	if err != nil {
		return nil, err
	}
	return asMapping(raw, "data")
}

// Destroy removes a bag from the configuration server and returns the
// server's response. Bags on disk are source-controlled, so solo mode
// refuses.
func Destroy(ctx context.Context, client *server.Client, cfg config.Config, name string) (interface{}, error) {
	if cfg.IsSolo() {
		return nil, errors.New(errors.ErrSoloUnsupported, "data bags cannot be destroyed in solo mode")
	}
	if cfg.DryRun {
		logger := logging.GetLogger("databag")
		logger.Debug().Str("bag", name).Msg("Dry run, skipping data bag destroy")
		return nil, nil
	}

	if client == nil {
		client = server.New(cfg.ServerURL)
	}
	return client.Delete(ctx, "data/"+name)
}

// loadSolo resolves a bag from the configured local roots
func loadSolo(fsys types.FS, cfg config.Config, name string) (map[string]interface{}, error) {
	logger := logging.GetLogger("databag.solo")
	items := make(map[string]interface{})

	for _, root := range cfg.DataBagPaths {
		if err := validateRoot(fsys, root); err != nil {
			return nil, err
		}

		matches, err := fsys.Glob(filepath.Join(root, name, "*.json"))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrItemRead, "failed to scan %s in %s", name, root)
		}
		logger.Trace().Str("root", root).Str("bag", name).Int("matches", len(matches)).Msg("Scanned bag root")

		for _, path := range matches {
			doc, err := readItemFile(fsys, path)
			if err != nil {
				return nil, err
			}
			// Later roots overwrite earlier ones: last root wins.
			items[itemID(path)] = doc
		}
	}

	return items, nil
}

// listSolo enumerates bag directories one level under each root
func listSolo(fsys types.FS, cfg config.Config) (map[string]interface{}, error) {
	names := make(map[string]interface{})

	for _, root := range cfg.DataBagPaths {
		if err := validateRoot(fsys, root); err != nil {
			return nil, err
		}

		entries, err := fsys.Glob(filepath.Join(root, "*"))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrItemRead, "failed to list bags in %s", root)
		}

		for _, entry := range entries {
			name := filepath.Base(entry)
			names[name] = name
		}
	}

	return names, nil
}

// validateRoot fails with DATA_BAG_PATH_INVALID unless root is a directory
func validateRoot(fsys types.FS, root string) error {
	info, err := fsys.Stat(root)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrDataBagPath, "Data bag path '%s' is invalid", root).
			WithDetail("path", root)
	}
	return nil
}

// readItemFile reads and decodes one item document
func readItemFile(fsys types.FS, path string) (interface{}, error) {
	raw, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrItemRead, "failed to read item file %s", path)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrItemDecode, "item file %s is not valid JSON", path)
	}
	return doc, nil
}

// itemID derives the item id from a file path: foo/bar.json -> bar
func itemID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// asMapping coerces a verbatim server response into the mapping shape
func asMapping(raw interface{}, path string) (map[string]interface{}, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrServer, "expected a JSON object from %s, got %T", path, raw)
	}
	return m, nil
}
