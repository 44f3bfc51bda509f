package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/seedkeeper/internal/catalog"
	"github.com/solatis/seedkeeper/internal/core/client"
	"github.com/solatis/seedkeeper/internal/core/config"
	"github.com/solatis/seedkeeper/internal/rules"
	"github.com/solatis/seedkeeper/internal/types"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a preset remotely against a predicted chest layout",
	Long: `Sends the preset and a prediction to a running seedkeeper server and
prints the outcome. Predictions are given as --predict LEVEL=ITEM, one per
floor; item names resolve through the catalog in either language.

The API key is read from the SK_API_KEY environment variable.`,
	Example: `  seedkeeper check --preset default --predict "20=Magnet Ring" --predict "80=Kudgel"`,
	Args:    cobra.NoArgs,
	RunE:    runCheck,
}

var (
	checkPreset   presetFlags
	checkPredicts []string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkPreset.register(checkCmd)
	checkCmd.Flags().StringArrayVar(&checkPredicts, "predict", nil, "predicted chest as LEVEL=ITEM (repeatable)")
	checkCmd.Flags().String("address", "127.0.0.1:50061", "server address")
	checkCmd.Flags().Duration("timeout", 0, "request timeout (default from config)")
	commandBindings["check"] = config.FlagBindings{
		"client.address": "address",
		"client.timeout": "timeout",
	}
}

// parsePrediction parses LEVEL=ITEM pairs. A level given twice keeps the
// last item.
func parsePrediction(pairs []string, cat rules.Catalog) (rules.Prediction, error) {
	predicted := make(rules.Prediction, len(pairs))
	for _, pair := range pairs {
		levelText, item, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(item) == "" {
			return nil, fmt.Errorf("invalid prediction %q: want LEVEL=ITEM", pair)
		}
		level, err := strconv.Atoi(strings.TrimSpace(levelText))
		if err != nil || level <= 0 {
			return nil, fmt.Errorf("invalid prediction %q: level must be a positive integer", pair)
		}
		predicted[types.Level(level)] = cat.Normalize(strings.TrimSpace(item))
	}
	return predicted, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	cat := catalog.Default()

	apiKey := config.APIKey()
	if apiKey == "" {
		return fmt.Errorf("no API key configured (set %s environment variable)", config.EnvAPIKey)
	}

	preset, err := checkPreset.resolve(cmd, cat)
	if err != nil {
		return err
	}
	predicted, err := parsePrediction(checkPredicts, cat)
	if err != nil {
		return err
	}

	c, err := client.New(cfg.Client.Address, apiKey, cfg.Client.Timeout)
	if err != nil {
		return err
	}
	defer c.Close()

	result, err := c.CheckRules(ctx, preset.Mode, preset.Rules, predicted)
	if err != nil {
		return err
	}
	logger.Debug("checked rules",
		zap.String("preset", preset.Name),
		zap.String("address", cfg.Client.Address),
		zap.Bool("ok", result.OK),
	)
	return printJSON(cmd, result)
}
