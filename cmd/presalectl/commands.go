package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"presale-backend/config"
	"presale-backend/internal/app"
	"presale-backend/internal/service"
	"presale-backend/pkg/logger"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"gopkg.in/urfave/cli.v1"
)

func loadConfig(c *cli.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	// Command output goes to stdout; logs stay on stderr.
	return cfg, logger.NewWithWriter(cfg.Log.Level, os.Stderr), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func reconcileCmd(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx := context.Background()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Reconciler.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	return writeJSON(c.App.Writer, report)
}

func tokensCmd(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx := context.Background()

	storage, err := app.OpenStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer storage.Close()

	audit := service.NewAuditService(storage.Audit, log)
	admin := service.NewTokenAdminService(storage.Tokens, service.NewArgon2HashService(), cfg.Admin.APIKeyHash, audit, service.SystemClock{}, log)

	if c.Bool("seed") {
		if err := app.SeedTokens(ctx, admin, cfg.Tokens); err != nil {
			return err
		}
	}
	tokens, err := admin.List(ctx)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, tokens)
}

func hashAdminKeyCmd(c *cli.Context) error {
	key := strings.TrimSpace(c.Args().First())
	if key == "" {
		return cli.NewExitError("an admin key argument is required", 2)
	}
	encoded, err := service.NewArgon2HashService().Hash(key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, encoded)
	return err
}

func encryptKeyCmd(c *cli.Context) error {
	keyHex := strings.TrimPrefix(strings.TrimSpace(c.Args().First()), "0x")
	if keyHex == "" {
		return cli.NewExitError("a private key argument is required", 2)
	}
	priv, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("invalid private key: %v", err), 2)
	}

	aesKey := c.String("aes-key")
	if aesKey == "" {
		cfg, _, err := loadConfig(c)
		if err != nil {
			return err
		}
		aesKey = cfg.AES.Key
	}
	encSvc, err := service.NewAESEncryptionService(aesKey, service.SignerKeyLabel)
	if err != nil {
		return err
	}
	ciphertext, err := encSvc.Encrypt(keyHex)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "signer: %s\n", crypto.PubkeyToAddress(priv.PublicKey).Hex())
	_, err = fmt.Fprintln(c.App.Writer, ciphertext)
	return err
}
