package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/seedkeeper/internal/core/auth"
	"github.com/solatis/seedkeeper/internal/core/config"
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys",
}

var apikeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API key for a client",
	Long: `Generates an API key signed with one of the configured HMAC secrets and
stores its hash. The key itself is printed once and cannot be recovered.`,
	Args: cobra.NoArgs,
	RunE: runAPIKeyCreate,
}

var apikeyRevokeCmd = &cobra.Command{
	Use:   "revoke <api-key-id>",
	Short: "Revoke an API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPIKeyRevoke,
}

var (
	apikeyClientID string
	apikeyName     string
	apikeySecretID string
)

func init() {
	rootCmd.AddCommand(apikeyCmd)
	apikeyCmd.AddCommand(apikeyCreateCmd, apikeyRevokeCmd)

	apikeyCreateCmd.Flags().StringVar(&apikeyClientID, "client", "", "client ID the key authenticates as")
	apikeyCreateCmd.Flags().StringVar(&apikeyName, "name", "", "human readable key name")
	apikeyCreateCmd.Flags().StringVar(&apikeySecretID, "secret-id", "", "HMAC secret ID to sign with (default: the only configured secret)")
	_ = apikeyCreateCmd.MarkFlagRequired("client")
}

func newAuthenticator() (*auth.Authenticator, func() error, error) {
	secrets, err := config.HMACSecrets()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load HMAC secrets: %w", err)
	}
	if len(secrets) == 0 {
		return nil, nil, fmt.Errorf("no HMAC secrets configured (set %s environment variable)", config.EnvHMACSecret)
	}
	database, queries, err := openDatabase(true)
	if err != nil {
		return nil, nil, err
	}
	return auth.NewAuthenticator(secrets, queries, logger), database.Close, nil
}

func runAPIKeyCreate(cmd *cobra.Command, args []string) error {
	authenticator, closeDB, err := newAuthenticator()
	if err != nil {
		return err
	}
	defer closeDB()

	secretID := apikeySecretID
	if secretID == "" {
		ids := authenticator.SecretIDs()
		if len(ids) != 1 {
			return fmt.Errorf("%d HMAC secrets configured; choose one with --secret-id", len(ids))
		}
		secretID = ids[0]
	}

	name := apikeyName
	if name == "" {
		name = apikeyClientID
	}

	apiKeyID, apiKey, err := authenticator.Issue(commandContext(cmd), apikeyClientID, name, secretID)
	if err != nil {
		return err
	}
	logger.Info("created api key",
		zap.String("api_key_id", apiKeyID),
		zap.String("client_id", apikeyClientID),
		zap.String("secret_id", secretID),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "api_key_id: %s\n", apiKeyID)
	fmt.Fprintf(out, "api_key:    %s\n", apiKey)
	fmt.Fprintln(out, "Store this key now; it will not be shown again.")
	return nil
}

func runAPIKeyRevoke(cmd *cobra.Command, args []string) error {
	authenticator, closeDB, err := newAuthenticator()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := authenticator.Revoke(commandContext(cmd), args[0]); err != nil {
		return err
	}
	logger.Info("revoked api key", zap.String("api_key_id", args[0]))
	return nil
}
