package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/seedkeeper/internal/catalog"
	"github.com/solatis/seedkeeper/internal/core/db"
	"github.com/solatis/seedkeeper/internal/presets"
	"github.com/solatis/seedkeeper/internal/rules"
	"github.com/solatis/seedkeeper/internal/types"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage stored rule presets",
}

var presetsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import presets from a YAML or JSONC file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsImport,
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored presets",
	Args:  cobra.NoArgs,
	RunE:  runPresetsList,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored preset in wire encoding",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsShow,
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsDelete,
}

var (
	importBuiltin bool
	listBuiltin   bool
)

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.AddCommand(presetsImportCmd, presetsListCmd, presetsShowCmd, presetsDeleteCmd)

	presetsImportCmd.Flags().BoolVar(&importBuiltin, "builtin", false, "also import the built-in presets")
	presetsListCmd.Flags().BoolVar(&listBuiltin, "builtin", false, "list built-in presets instead of stored ones")
}

// presetView is the printed form of a preset.
type presetView struct {
	ID    string              `json:"id,omitempty"`
	Name  string              `json:"name"`
	Mode  types.Mode          `json:"mode"`
	Rules []rules.EncodedRule `json:"rules"`
}

func viewOf(p types.Preset) presetView {
	return presetView{
		ID:    string(p.ID),
		Name:  p.Name,
		Mode:  p.Mode,
		Rules: rules.Serialize(p.Rules),
	}
}

func openPresetRepository() (*db.PresetRepository, func() error, error) {
	database, queries, err := openDatabase(true)
	if err != nil {
		return nil, nil, err
	}
	return db.NewPresetRepository(queries, catalog.Default()), database.Close, nil
}

func runPresetsImport(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	loaded, err := presets.LoadFile(args[0], catalog.Default())
	if err != nil {
		return err
	}
	if importBuiltin {
		loaded = append(presets.Builtin(), loaded...)
	}

	repo, closeDB, err := openPresetRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	for _, p := range loaded {
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
		logger.Info("imported preset", zap.String("name", p.Name), zap.Int("rules", len(p.Rules)))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d presets\n", len(loaded))
	return nil
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	var list []types.Preset
	if listBuiltin {
		list = presets.Builtin()
	} else {
		repo, closeDB, err := openPresetRepository()
		if err != nil {
			return err
		}
		defer closeDB()

		list, err = repo.List(commandContext(cmd))
		if err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tRULES\tLEVELS")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%v\n", p.Name, p.Mode, len(p.Rules), rules.CollectLevels(p.Rules))
	}
	return w.Flush()
}

func runPresetsShow(cmd *cobra.Command, args []string) error {
	repo, closeDB, err := openPresetRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	p, err := repo.Get(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, viewOf(p))
}

func runPresetsDelete(cmd *cobra.Command, args []string) error {
	repo, closeDB, err := openPresetRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.Delete(commandContext(cmd), args[0]); err != nil {
		return err
	}
	logger.Info("deleted preset", zap.String("name", args[0]))
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
