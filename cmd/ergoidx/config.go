package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/ergowatch/ergo-indexer/indexerconfig"
	"github.com/ergowatch/ergo-indexer/internal/flags"
)

// These settings ensure TOML keys use the same names as Go struct fields,
// exactly as cmd/mive/config.go configures naoina/toml.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

func loadConfigFile(file string, cfg *indexerconfig.Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	var lineErr *toml.LineError
	if errors.As(err, &lineErr) {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// loadConfig layers an optional TOML file and then CLI flags on top of
// indexerconfig.Default, the same order cmd/mive/config.go's loadBaseConfig
// applies a config file before flags.
func loadConfig(ctx *cli.Context) (indexerconfig.Config, error) {
	cfg := indexerconfig.Default()

	if file := ctx.String(flags.ConfigFileFlag.Name); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if ctx.IsSet(flags.NetworkFlag.Name) {
		cfg.Network = ctx.String(flags.NetworkFlag.Name)
	}
	if ctx.IsSet(flags.NodeURLFlag.Name) {
		cfg.NodeURL = ctx.String(flags.NodeURLFlag.Name)
	}
	if ctx.IsSet(flags.NodeTimeoutFlag.Name) {
		cfg.NodeTimeout = ctx.Duration(flags.NodeTimeoutFlag.Name)
	}
	if ctx.IsSet(flags.DatabaseURLFlag.Name) {
		cfg.DatabaseURL = ctx.String(flags.DatabaseURLFlag.Name)
	}
	if ctx.IsSet(flags.PollIntervalFlag.Name) {
		cfg.PollInterval = ctx.Duration(flags.PollIntervalFlag.Name)
	}
	if ctx.IsSet(flags.NoBootstrapFlag.Name) {
		cfg.NoBootstrap = ctx.Bool(flags.NoBootstrapFlag.Name)
	}
	if ctx.IsSet(flags.ExitWhenSyncedFlag.Name) {
		cfg.ExitWhenSynced = ctx.Bool(flags.ExitWhenSyncedFlag.Name)
	}
	if ctx.IsSet(flags.DataDirFlag.Name) {
		cfg.DataDir = ctx.String(flags.DataDirFlag.Name)
	}
	if ctx.IsSet(flags.LogFileFlag.Name) {
		cfg.LogFile = ctx.String(flags.LogFileFlag.Name)
	}
	if ctx.IsSet(flags.LogJSONFlag.Name) {
		cfg.LogJSON = ctx.Bool(flags.LogJSONFlag.Name)
	}
	if ctx.IsSet(flags.VerbosityFlag.Name) {
		cfg.Verbosity = ctx.Int(flags.VerbosityFlag.Name)
	}

	if cfg.NodeURL == "" {
		return cfg, errors.New("node.url is required")
	}
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("database.url is required")
	}
	return cfg, nil
}
