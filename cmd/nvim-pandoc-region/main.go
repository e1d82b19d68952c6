// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the Neovim remote plugin for pandoc-region. It registers
// one user command per conversion action; each converts the visual
// selection, or the command's line range, in the current buffer.
//
// Print the command manifest for the remote plugin host with:
//
//	nvim-pandoc-region -manifest nvim-pandoc-region
package main

import (
	"os"

	"github.com/neovim/go-client/nvim/plugin"
	"github.com/spf13/viper"

	"github.com/pdiddy/pandoc-region/internal/config"
	"github.com/pdiddy/pandoc-region/internal/logging"
	"github.com/pdiddy/pandoc-region/internal/nvimhost"
	"github.com/pdiddy/pandoc-region/internal/session"
)

func main() {
	plugin.Main(func(p *plugin.Plugin) error {
		v := viper.New()
		if _, err := config.Init(v, os.Getenv(config.EnvPrefix+"_CONFIG")); err != nil {
			return err
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}

		// stdout carries the RPC stream.
		log := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
		nvimhost.Register(p, session.FromConfig(cfg, log), log)
		return nil
	})
}
