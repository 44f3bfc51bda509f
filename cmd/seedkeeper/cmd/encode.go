package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/seedkeeper/internal/catalog"
	"github.com/solatis/seedkeeper/internal/notify"
	"github.com/solatis/seedkeeper/internal/presets"
	"github.com/solatis/seedkeeper/internal/rules"
	"github.com/solatis/seedkeeper/internal/types"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Validate a preset and print its search request",
	Long: `Applies a preset to an enabled filter, validates it and prints the
search request with chest_rules in positional wire encoding. Use --rules-only
to print just the chest_rules array.`,
	Args: cobra.NoArgs,
	RunE: runEncode,
}

// presetFlags selects a preset from a file, the database or the built-ins.
type presetFlags struct {
	name   string
	file   string
	fromDB bool
}

func (f *presetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "preset", "default", "preset name")
	cmd.Flags().StringVar(&f.file, "file", "", "load the preset from a YAML or JSONC file")
	cmd.Flags().BoolVar(&f.fromDB, "from-db", false, "load the preset from the database")
}

// resolve finds the selected preset. A file holding a single preset needs
// no name.
func (f *presetFlags) resolve(cmd *cobra.Command, cat rules.Catalog) (types.Preset, error) {
	switch {
	case f.file != "":
		loaded, err := presets.LoadFile(f.file, cat)
		if err != nil {
			return types.Preset{}, err
		}
		if len(loaded) == 1 && !cmd.Flags().Changed("preset") {
			return loaded[0], nil
		}
		return presets.Find(loaded, f.name)
	case f.fromDB:
		repo, closeDB, err := openPresetRepository()
		if err != nil {
			return types.Preset{}, err
		}
		defer closeDB()
		return repo.Get(commandContext(cmd), f.name)
	default:
		return presets.Find(presets.Builtin(), f.name)
	}
}

var (
	encodePreset    presetFlags
	encodeSeeds     rules.SeedRange
	encodeRulesOnly bool
)

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodePreset.register(encodeCmd)
	encodeCmd.Flags().IntVar(&encodeSeeds.Start, "seed-start", 0, "first seed of the search range")
	encodeCmd.Flags().IntVar(&encodeSeeds.End, "seed-end", types.MaxSeedSpan, "end of the search range (exclusive)")
	encodeCmd.Flags().BoolVar(&encodeSeeds.UseLegacy, "legacy", false, "use the legacy seed generator")
	encodeCmd.Flags().BoolVar(&encodeRulesOnly, "rules-only", false, "print only the chest_rules array")
}

func runEncode(cmd *cobra.Command, args []string) error {
	cat := catalog.Default()
	engine := rules.NewEngine(cat, notify.NewLogger(logger))

	preset, err := encodePreset.resolve(cmd, cat)
	if err != nil {
		return err
	}

	store := rules.NewStore()
	store.Enabled = true
	engine.ApplyPreset(store, preset)

	req, err := engine.BuildRequest(store, encodeSeeds)
	if err != nil {
		return fmt.Errorf("preset %q: %w", preset.Name, err)
	}
	if encodeRulesOnly {
		return printJSON(cmd, req.ChestRules)
	}
	return printJSON(cmd, req)
}
