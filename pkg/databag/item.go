package databag

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/provisio/databag/pkg/config"
	"github.com/provisio/databag/pkg/errors"
	"github.com/provisio/databag/pkg/logging"
	"github.com/provisio/databag/pkg/server"
	"github.com/provisio/databag/pkg/types"
)

// Item is one JSON document inside a bag. The raw document must carry
// an "id" field obeying the same character rules as bag names.
type Item struct {
	bagName string
	raw     map[string]interface{}
}

// NewItem validates the bag name and the document's id and wraps the
// document as an Item
func NewItem(bagName string, raw map[string]interface{}) (*Item, error) {
	if !validName.MatchString(bagName) {
		return nil, errors.Newf(errors.ErrInvalidFormat,
			"data bag name %q must match [A-Za-z0-9._-]+", bagName)
	}

	id, ok := raw["id"].(string)
	if !ok {
		return nil, errors.New(errors.ErrInvalidFormat, `data bag item must have a string "id" field`)
	}
	if !validName.MatchString(id) {
		return nil, errors.Newf(errors.ErrInvalidFormat,
			"data bag item id %q must match [A-Za-z0-9._-]+", id)
	}

	return &Item{bagName: bagName, raw: raw}, nil
}

// BagName returns the name of the bag this item belongs to
func (i *Item) BagName() string {
	return i.bagName
}

// ID returns the item's id
func (i *Item) ID() string {
	id, _ := i.raw["id"].(string)
	return id
}

// Raw returns the item's document
func (i *Item) Raw() map[string]interface{} {
	return i.raw
}

// MarshalJSON serializes the raw document, which is the item's wire form
func (i *Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.raw)
}

// Save creates the item under its bag on the configuration server.
// Dry-run skips the call; an existing item of the same id is a
// conflict and treated as success, matching the bag save contract.
func (i *Item) Save(ctx context.Context, client *server.Client, cfg config.Config) error {
	logger := logging.GetLogger("databag.item")

	if cfg.DryRun {
		logger.Debug().Str("bag", i.bagName).Str("id", i.ID()).Msg("Dry run, skipping item create")
		return nil
	}

	if client == nil {
		client = server.New(cfg.ServerURL)
	}

	if err := client.Post(ctx, "data/"+i.bagName, i); err != nil {
		if server.IsConflict(err) {
			logger.Debug().Str("bag", i.bagName).Str("id", i.ID()).Msg("Item already exists")
			return nil
		}
		return err
	}

	logger.Info().Str("bag", i.bagName).Str("id", i.ID()).Msg("Created data bag item")
	return nil
}

// Destroy removes the item from the configuration server. Solo mode
// refuses, since local items are source-controlled files.
func (i *Item) Destroy(ctx context.Context, client *server.Client, cfg config.Config) (interface{}, error) {
	if cfg.IsSolo() {
		return nil, errors.New(errors.ErrSoloUnsupported, "data bag items cannot be destroyed in solo mode")
	}
	if cfg.DryRun {
		logger := logging.GetLogger("databag.item")
		logger.Debug().
			Str("bag", i.bagName).Str("id", i.ID()).Msg("Dry run, skipping item destroy")
		return nil, nil
	}

	if client == nil {
		client = server.New(cfg.ServerURL)
	}
	return client.Delete(ctx, "data/"+i.bagName+"/"+i.ID())
}

// LoadItem resolves a single item. Server mode fetches
// data/<bag>/<id>; solo mode reads <root>/<bag>/<id>.json from the
// configured roots, with later roots overriding earlier ones.
func LoadItem(ctx context.Context, fsys types.FS, client *server.Client, cfg config.Config, bag, id string) (map[string]interface{}, error) {
	if !cfg.IsSolo() {
		if client == nil {
			client = server.New(cfg.ServerURL)
		}
		raw, err := client.Get(ctx, "data/"+bag+"/"+id)
		if err != nil {
			return nil, err
		}
		return asMapping(raw, "data/"+bag+"/"+id)
	}

	var found map[string]interface{}
	for _, root := range cfg.DataBagPaths {
		if err := validateRoot(fsys, root); err != nil {
			return nil, err
		}

		path := filepath.Join(root, bag, id+".json")
		if _, err := fsys.Stat(path); err != nil {
			continue
		}

		doc, err := readItemFile(fsys, path)
		if err != nil {
			return nil, err
		}
		m, ok := doc.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrItemDecode, "item file %s is not a JSON object", path)
		}
		found = m
	}

	if found == nil {
		return nil, errors.Newf(errors.ErrNotFound, "data bag item %s/%s not found", bag, id)
	}
	return found, nil
}
