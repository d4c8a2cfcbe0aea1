package main

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/flux-anime/weaver/core/cli"
	"github.com/flux-anime/weaver/internal"
)

func main() {
	// Default to console output at info until the CLI flags are parsed
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// handle loading environment variables from .env files
	envFiles := []string{".env", "weaver.env"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(homeDir, "weaver.env"), filepath.Join(homeDir, ".config/weaver.env"))
	}
	envFiles = append(envFiles, "/etc/weaver.env")

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			log.Debug().Str("envFile", envFile).Msg("env file found, loading environment variables from file")
			if err := godotenv.Load(envFile); err != nil {
				log.Error().Err(err).Str("envFile", envFile).Msg("failed to load environment variables from file")
			}
		}
	}

	ctx := kong.Parse(&cli.CLI,
		kong.Description(
			`  Anime Weaver serves a web interface and a small API in front of a
remote text-to-image diffusion pipeline.

Version: ${version}
`,
		),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.PrintableVersion(),
		},
	)

	logLevel := "info"
	if cli.CLI.Debug && cli.CLI.LogLevel == nil {
		logLevel = "debug"
	}
	if cli.CLI.LogLevel != nil {
		logLevel = *cli.CLI.LogLevel
	}

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if cli.CLI.LogFormat != nil && *cli.CLI.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	if err := ctx.Run(&cli.CLI.Context); err != nil {
		log.Fatal().Err(err).Msg("error running the application")
	}
}
