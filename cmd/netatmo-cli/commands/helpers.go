package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/54b3r/netatmo-cli/internal/config"
	"github.com/54b3r/netatmo-cli/internal/logging"
	"github.com/54b3r/netatmo-cli/internal/store"
	"github.com/54b3r/netatmo-cli/internal/version"
)

// errLedgerDisabled is returned by openLedger when NETATMO_CLI_STATE_DB is "disabled".
var errLedgerDisabled = errors.New("run ledger is disabled (NETATMO_CLI_STATE_DB=disabled)")

// enforceRequiredVersion checks the binary against NETATMO_CLI_REQUIRED_VERSION.
// Builds without a version cannot be checked; they only log a warning.
func enforceRequiredVersion(log *slog.Logger) error {
	constraint := os.Getenv(config.EnvRequiredVersion)
	err := version.Check(constraint)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, version.ErrUnknownVersion):
		log.Warn("required_version not enforced",
			slog.String("constraint", constraint),
			slog.String("reason", err.Error()),
		)
		return nil
	default:
		return err
	}
}

// openLedger opens the run ledger at NETATMO_CLI_STATE_DB, or the default
// path when unset.
func openLedger() (*store.SQLiteStore, error) {
	path := os.Getenv(config.EnvStateDB)
	if path == store.Disabled {
		return nil, errLedgerDisabled
	}
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}

// recordRun appends this invocation to the run ledger and logs version
// changes since the previous run. Ledger failures never fail the command.
func recordRun(ctx context.Context, command string) {
	log := logging.FromContext(ctx)

	ledger, err := openLedger()
	if errors.Is(err, errLedgerDisabled) {
		log.Debug("run ledger disabled")
		return
	}
	if err != nil {
		log.Warn("run ledger unavailable", slog.String("error", err.Error()))
		return
	}
	defer ledger.Close()

	if err := trackRun(ctx, ledger, command); err != nil {
		log.Warn("run ledger update failed", slog.String("error", err.Error()))
	}
}

// trackRun compares the previous recorded version with the running one and
// records the current invocation.
func trackRun(ctx context.Context, ledger store.RunLedger, command string) error {
	log := logging.FromContext(ctx)
	info := version.Get()

	previous, err := ledger.LastVersion(ctx)
	if err != nil {
		return err
	}

	switch change := version.Classify(previous, info.Version); change {
	case version.ChangeUpgrade, version.ChangeDowngrade, version.ChangeUnknown:
		log.Info("netatmo-cli version changed since last run",
			slog.String("previous", previous),
			slog.String("current", info.Version),
			slog.String("change", string(change)),
		)
	case version.ChangeFirstRun:
		log.Debug("first recorded run", slog.String("current", info.Version))
	}

	if err := ledger.RecordRun(ctx, store.Run{
		Version: info.Version,
		Commit:  info.Commit,
		Command: command,
	}); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
