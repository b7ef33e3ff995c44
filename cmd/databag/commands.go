package databag

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/provisio/databag/pkg/config"
	dbag "github.com/provisio/databag/pkg/databag"
	"github.com/provisio/databag/pkg/errors"
	"github.com/provisio/databag/pkg/filesystem"
	"github.com/provisio/databag/pkg/logging"
)

func newListCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(opts)
			if err != nil {
				return err
			}

			names, err := dbag.List(cmd.Context(), filesystem.NewOS(), newClient(cfg), cfg)
			if err != nil {
				return err
			}
			return renderNames(cmd.OutOrStdout(), opts.format, names)
		},
	}
}

func newShowCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show <bag> [item]",
		Short: MsgShowShort,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(opts)
			if err != nil {
				return err
			}
			fsys := filesystem.NewOS()

			if len(args) == 2 {
				doc, err := dbag.LoadItem(cmd.Context(), fsys, newClient(cfg), cfg, args[0], args[1])
				if err != nil {
					return err
				}
				return renderDocument(cmd.OutOrStdout(), opts.format, doc)
			}

			items, err := dbag.Load(cmd.Context(), fsys, newClient(cfg), cfg, args[0])
			if err != nil {
				return err
			}
			return renderItems(cmd.OutOrStdout(), opts.format, args[0], items)
		},
	}
}

func newCreateCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "create <bag> [item-file...]",
		Short: MsgCreateShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(opts)
			if err != nil {
				return err
			}
			logger := logging.GetLogger("cli.create")

			bag := dbag.New()
			if err := bag.SetName(args[0]); err != nil {
				return err
			}
			if err := bag.Save(cmd.Context(), newClient(cfg), cfg); err != nil {
				return err
			}

			for _, path := range args[1:] {
				item, err := itemFromFile(bag.Name(), path)
				if err != nil {
					return err
				}
				if err := item.Save(cmd.Context(), newClient(cfg), cfg); err != nil {
					return err
				}
				logger.Info().Str("bag", bag.Name()).Str("id", item.ID()).Msg("Uploaded item")
			}

			return nil
		},
	}
}

func newDeleteCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <bag> [item]",
		Short: MsgDeleteShort,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(opts)
			if err != nil {
				return err
			}

			if len(args) == 2 {
				item, err := dbag.NewItem(args[0], map[string]interface{}{"id": args[1]})
				if err != nil {
					return err
				}
				_, err = item.Destroy(cmd.Context(), newClient(cfg), cfg)
				return err
			}

			_, err = dbag.Destroy(cmd.Context(), newClient(cfg), cfg, args[0])
			return err
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: MsgInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(config.ConfigFileName); err == nil {
				return errors.Newf(errors.ErrInvalidInput, "%s already exists", config.ConfigFileName)
			}

			content, err := config.GenerateConfigContent()
			if err != nil {
				return err
			}
			if err := os.WriteFile(config.ConfigFileName, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "failed to write %s", config.ConfigFileName)
			}

			cmd.Printf("Wrote %s\n", config.ConfigFileName)
			return nil
		},
	}
}

// itemFromFile reads a JSON document from disk and validates it as an item
func itemFromFile(bagName, path string) (*dbag.Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrItemRead, "failed to read item file %s", path)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrItemDecode, "item file %s is not a JSON object", path)
	}

	return dbag.NewItem(bagName, doc)
}
