package databag

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/provisio/databag/pkg/cobrax/topics"
	"github.com/provisio/databag/pkg/errors"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

// stylesEnabled reports whether stdout supports styled output
func stylesEnabled() bool {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

// topicRenderer picks the help-topic renderer for the current terminal
func topicRenderer() topics.Renderer {
	if stylesEnabled() {
		return topics.NewGlamourRenderer()
	}
	return &topics.PlainRenderer{}
}

// renderNames prints the bag name listing
func renderNames(w io.Writer, format string, names map[string]interface{}) error {
	switch format {
	case "json":
		return writeJSON(w, names)
	case "yaml":
		return writeYAML(w, names)
	case "plain":
		sorted := sortedKeys(names)
		if stylesEnabled() {
			items := make([]pterm.BulletListItem, 0, len(sorted))
			for _, name := range sorted {
				items = append(items, pterm.BulletListItem{Level: 0, Text: name})
			}
			out, err := pterm.DefaultBulletList.WithItems(items).Srender()
			if err == nil {
				fmt.Fprint(w, headerStyle.Render("Data bags")+"\n"+out)
				return nil
			}
		}
		for _, name := range sorted {
			fmt.Fprintln(w, name)
		}
		return nil
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown output format %q", format)
	}
}

// renderItems prints a bag's item mapping
func renderItems(w io.Writer, format string, bagName string, items map[string]interface{}) error {
	switch format {
	case "json":
		return writeJSON(w, items)
	case "yaml":
		return writeYAML(w, items)
	case "plain":
		if stylesEnabled() {
			fmt.Fprintln(w, headerStyle.Render(bagName))
		} else {
			fmt.Fprintf(w, "%s:\n", bagName)
		}
		for _, id := range sortedKeys(items) {
			doc, err := json.Marshal(items[id])
			if err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "failed to render item %s", id)
			}
			fmt.Fprintf(w, "  %s  %s\n", id, doc)
		}
		return nil
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown output format %q", format)
	}
}

// renderDocument prints one item document
func renderDocument(w io.Writer, format string, doc map[string]interface{}) error {
	switch format {
	case "json", "plain":
		return writeJSON(w, doc)
	case "yaml":
		return writeYAML(w, doc)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown output format %q", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	return yaml.NewEncoder(w).Encode(v)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
