package config

import (
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/provisio/databag/pkg/errors"
)

// tomlConfig is the user-facing file shape of Config
type tomlConfig struct {
	Mode        string   `toml:"mode"`
	DataBagPath []string `toml:"data_bag_path"`
	ServerURL   string   `toml:"server_url"`
	DryRun      bool     `toml:"dry_run"`
}

// GenerateConfigContent renders a starter databag.toml: the built-in
// defaults serialized to TOML with every value line commented out, so
// users uncomment only what they change.
func GenerateConfigContent() (string, error) {
	def := Default()
	raw, err := toml.Marshal(tomlConfig{
		Mode:        def.Mode.String(),
		DataBagPath: def.DataBagPaths,
		ServerURL:   def.ServerURL,
		DryRun:      def.DryRun,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render default config")
	}

	header := "# databag configuration. Uncomment values to override the defaults.\n\n"
	return header + commentOutConfigValues(string(raw)), nil
}

// commentOutConfigValues comments out all non-comment, non-blank,
// non-section lines of a TOML document
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
