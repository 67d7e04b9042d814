package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/crypto-vault/internal/app"
	"github.com/MKhiriev/crypto-vault/internal/client"
	"github.com/MKhiriev/crypto-vault/internal/config"
	"github.com/MKhiriev/crypto-vault/internal/logger"
	"github.com/MKhiriev/crypto-vault/internal/service"
	"github.com/MKhiriev/crypto-vault/internal/store"
	"github.com/MKhiriev/crypto-vault/models"
	"github.com/MKhiriev/crypto-vault/vault"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	// wipe locked key buffers on Ctrl-C
	memguard.CatchInterrupt()

	code := run(os.Args[1:])
	memguard.Purge()
	os.Exit(code)
}

func run(args []string) int {
	cfg, rest, err := config.GetStructuredConfig(args)
	if errors.Is(err, flag.ErrHelp) {
		client.Usage(os.Stdout)
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", app.UserMessage(err))
		return 2
	}

	log := logger.NewLogger("crypto-vault", cfg.Log.Level)
	ctx := log.WithContext(context.Background())

	log.Debug().
		Str("backend", cfg.Storage.Backend).
		Str("suite", cfg.Vault.Suite).
		Int("workers", cfg.Workers.PoolSize).
		Msg("received configs")

	var storage store.RawVaultStorage
	defer func() {
		if storage != nil {
			if err := storage.Close(); err != nil {
				log.Err(err).Msg("error closing storage")
			}
		}
	}()

	newService := func(ctx context.Context) (service.VaultService[models.Payload], error) {
		s, err := store.NewRawVaultStorage(ctx, cfg.Storage, log)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		storage = s
		return service.NewVaultServiceFromConfig[models.Payload](storage, vault.JSONCodec[models.Payload]{}, *cfg, log)
	}

	cli := client.NewApp(newService, log,
		client.WithBuildInfo(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)),
	)

	if err := cli.Run(ctx, rest); err != nil {
		if errors.Is(err, client.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr)
			client.Usage(os.Stderr)
		} else {
			fmt.Fprintln(os.Stderr, "error:", app.UserMessage(err))
		}
		return client.ExitCode(err)
	}

	return 0
}
