package main

import (
	"fmt"
	"log"
	"os"

	"github.com/blackeyes972/budget-familiare/internal/catalog"
	"github.com/blackeyes972/budget-familiare/internal/config"
	"github.com/blackeyes972/budget-familiare/internal/database"
	"github.com/blackeyes972/budget-familiare/internal/registry"
	"github.com/blackeyes972/budget-familiare/internal/router"
)

// defaultProfileName is registered on first run when no profile exists.
const defaultProfileName = "Default SQLite"

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	for _, dir := range []string{cfg.Dirs.Data, cfg.Dirs.Config, cfg.Dirs.Backups, cfg.Dirs.Exports} {
		if err := ensureDir(dir); err != nil {
			log.Fatalf("create dir %s: %v", dir, err)
		}
	}

	reg := registry.New(cfg.RegistryPath())
	mgr, err := openCurrentStore(cfg, reg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	store := database.NewCurrent(mgr)

	r := router.SetupRouter(cfg, store, reg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s (store: %s)", addr, mgr.Type())
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

// openCurrentStore resolves the registry's current profile and opens it
// ready to use: schema in place (repaired when drifted) and default
// categories seeded. On first run a local sqlite profile is registered
// and selected — but only once its store has opened and been prepared,
// so a failed open never leaves the registry pointing at a store that
// was never ready.
func openCurrentStore(cfg *config.Config, reg *registry.Registry) (*database.Manager, error) {
	profile, err := reg.Current()
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	firstRun := profile == nil
	if firstRun {
		profile = &registry.Profile{
			Name:   defaultProfileName,
			Type:   database.TypeSQLite,
			Params: database.Params{DBName: cfg.Database.DefaultName},
		}
	}

	mgr, err := database.Open(profile.Type, profile.Params, cfg.Dirs.Data, cfg.Database.LogMode)
	if err != nil {
		return nil, err
	}

	if err := mgr.CheckSchema(); err != nil {
		log.Printf("schema drift detected: %v", err)
		if err := mgr.RepairSchema(); err != nil {
			mgr.Close()
			return nil, fmt.Errorf("repair schema: %w", err)
		}
		log.Printf("schema repaired")
	}

	if err := catalog.EnsureDefaults(mgr.DB()); err != nil {
		mgr.Close()
		return nil, fmt.Errorf("seed default categories: %w", err)
	}

	if firstRun {
		if err := reg.Add(profile.Name, profile.Type, profile.Params); err != nil && err != registry.ErrExists {
			mgr.Close()
			return nil, fmt.Errorf("register default profile: %w", err)
		}
		if err := reg.SetCurrent(profile.Name); err != nil {
			mgr.Close()
			return nil, fmt.Errorf("select default profile: %w", err)
		}
		log.Printf("registered default profile %q", defaultProfileName)
	}
	return mgr, nil
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
