package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/nodekeys/internal/errors"
	"github.com/PolarWolf314/nodekeys/internal/ui"
	"github.com/PolarWolf314/nodekeys/internal/utils"
	"github.com/PolarWolf314/nodekeys/internal/workflows"
)

var (
	initMasterKey  keyFlag
	initPrivateKey string
	initForce      bool
	initNoSeal     bool
)

func init() {
	configInitCmd.Flags().Var(&initMasterKey, "master-key", "master key in base64 (prompted when omitted)")
	configInitCmd.Flags().StringVar(&initPrivateKey, "private-key", "", "encrypted RSA private key in base64, as returned at login")
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing session")
	configInitCmd.Flags().BoolVar(&initNoSeal, "no-passphrase", false, "store the keys unencrypted")
}

func resetConfigInitState() {
	initMasterKey.reset()
	initPrivateKey = ""
	initForce = false
	initNoSeal = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Save your keys to a session file",
	Long: `Writes a session file holding your master key and, optionally, your
encrypted RSA private key. The RSA key opens folders other users shared
with you.

The keys are sealed with a passphrase, read from $NODEKEYS_PASSPHRASE or
prompted for twice. Use --no-passphrase to store them unencrypted. The file
is created with owner-only permissions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config init command")

		masterKey := initMasterKey.Bytes()
		if masterKey == nil {
			ConfigLogger.Debugf("No --master-key flag, prompting")
			var prompted keyFlag
			secret, err := utils.ReadSecret("Master key (base64): ")
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("Failed to read master key: %w", err)
			}
			if err := prompted.Set(strings.TrimSpace(string(secret))); err != nil {
				return ConfigLogger.ErrorfAndReturn("Invalid master key: %w", err)
			}
			masterKey = prompted.Bytes()
		}

		var passphrase []byte
		if !initNoSeal {
			p, err := newPassphrase()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Error.Sprint("✗")+" No passphrase to seal the session with")
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Info.Sprint("→")+" Set "+ui.Code.Sprint(passphraseEnv)+" or pass "+ui.Flag.Sprint("--no-passphrase"))
				return ConfigLogger.ErrorfAndReturn("Failed to read passphrase: %w", err)
			}
			passphrase = p
		}

		summary, err := workflows.InitSession(cmd.Context(), workflows.InitSessionOptions{
			Path:       configSession,
			MasterKey:  masterKey,
			PrivateKey: initPrivateKey,
			Passphrase: passphrase,
			Force:      initForce,
		})
		if errors.Is(err, kerrors.ErrSessionExists) {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Error.Sprint("✗")+" A session already exists")
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Info.Sprint("→")+" Use "+ui.Flag.Sprint("--force")+" to replace it")
			return err
		}
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to create session: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+" Session saved to "+ui.Path.Sprint(summary.Path))
		fmt.Fprintln(cmd.OutOrStdout(), "  master key fingerprint "+ui.Info.Sprint(summary.Fingerprint))
		if !summary.Sealed {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warning.Sprint("⚠")+" Keys are stored unencrypted")
		}
		return nil
	},
}
