package main

import (
	"context"
	"flag"
	"log"
)

var (
	configPath = flag.String("config", "", "path to a YAML config file")
	host       = flag.String("host", "", "listen host (default 0.0.0.0)")
	port       = flag.Int("port", 0, "port number (default 8080)")
	root       = flag.String("root", "", "serve documents from this directory instead of the embedded webapp")
)

func newFileStore(cfg *Config) (FileStore, error) {
	if cfg.Web.DocumentRoot == "" {
		return NewEmbeddedFileStore()
	}
	return NewDirFileStore(cfg.Web.DocumentRoot)
}

func main() {
	flag.Parse()

	cfg, err := Load(*configPath)
	if err != nil {
		log.Fatalf("E %v", err)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *root != "" {
		cfg.Web.DocumentRoot = *root
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("E invalid config: %v", err)
	}
	SetLogColor(cfg.Log.Color)

	files, err := newFileStore(cfg)
	if err != nil {
		log.Fatalf("E %v", err)
	}
	router := NewRouter(files, NewMemoryUserRepository())

	srv := NewServer(cfg.ServerAddress(), router, cfg.WorkerOptions())
	if err := srv.Start(context.Background()); err != nil {
		log.Fatalf("E %v", err)
	}
}
