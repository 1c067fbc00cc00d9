package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hiakki/GhumaggerSnap/api"
	"github.com/hiakki/GhumaggerSnap/api/eventhub"
	"github.com/hiakki/GhumaggerSnap/sandbox"
	"github.com/hiakki/GhumaggerSnap/thumbs"
	"github.com/hiakki/GhumaggerSnap/tool"
	"github.com/hiakki/GhumaggerSnap/users"
)

func main() {
	cfg := tool.SetFlags()
	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if cfg.UseMediaRoot != "" {
		appCfg.MediaRoot = cfg.UseMediaRoot
	}
	if cfg.UseThumbRoot != "" {
		appCfg.ThumbRoot = cfg.UseThumbRoot
	}
	if cfg.UseWebOutPath != "" {
		appCfg.WebOut = cfg.UseWebOutPath
	}
	if cfg.UsePort > 0 {
		appCfg.Port = cfg.UsePort
	}
	tool.CurrentConfig = appCfg

	// initialize logger
	tool.InitLogger()
	if cfg.Log == "" {
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	} else {
		switch strings.ToLower(cfg.Log) {
		case "dev":
			tool.DefaultLogger.SetLevel(log.DebugLevel)
		case "prod":
			tool.DefaultLogger.SetLevel(log.InfoLevel)
		case "none":
			tool.DefaultLogger.SetLevel(log.FatalLevel)
		default:
			tool.DefaultLogger.Warnf("Unknown log mode %q, using debug level", cfg.Log)
			tool.DefaultLogger.SetLevel(log.DebugLevel)
		}
	}

	info, err := os.Stat(appCfg.MediaRoot)
	if err != nil || !info.IsDir() {
		tool.DefaultLogger.Fatalf("Media root %q is not a directory, set mediaRoot in %s or pass -useMediaRoot", appCfg.MediaRoot, tool.ConfigPath)
	}

	resolver, err := sandbox.New(appCfg.MediaRoot)
	if err != nil {
		tool.DefaultLogger.Fatalf("Resolving media root failed: %v", err)
	}
	cache, err := thumbs.NewCache(appCfg.ThumbRoot, appCfg.ThumbMaxSize, appCfg.ThumbQuality)
	if err != nil {
		tool.DefaultLogger.Fatalf("Creating thumbnail cache failed: %v", err)
	}

	store, err := users.Load(appCfg.UsersFile)
	if err != nil {
		tool.DefaultLogger.Fatalf("Loading user store failed: %v", err)
	}

	hub := eventhub.New()

	server := api.NewServer(resolver, cache, store, hub)
	tool.DefaultLogger.Infof("Serving media from %s", resolver.Root())
	if err := server.Start(); err != nil {
		tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
	}
}
