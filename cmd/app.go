package cmd

import (
	"os"

	"github.com/spf13/viper"

	"github.com/tesh254/tabdown/internal/api"
	"github.com/tesh254/tabdown/internal/logger"
	"github.com/tesh254/tabdown/internal/scraper"
	"github.com/tesh254/tabdown/internal/storage"
)

// app holds what a command needs, built from the merged flag/env/file config.
type app struct {
	log     *logger.Logger
	config  *scraper.Config
	archive *storage.Archive
	api     *api.API
}

func newLogger() *logger.Logger {
	return logger.NewFromString(os.Stderr, viper.GetString("log-level"))
}

func scraperConfig() *scraper.Config {
	cfg := scraper.DefaultConfig()
	if ua := viper.GetString("user-agent"); ua != "" {
		cfg.UserAgent = ua
	}
	if t := viper.GetDuration("timeout"); t > 0 {
		cfg.Timeout = t
	}
	cfg.Frames = viper.GetBool("frames")
	return cfg
}

// newApp wires the scraper, archive and API. The archive is only opened when
// withArchive is set and an archive path is configured.
func newApp(withArchive bool) (*app, error) {
	a := &app{
		log:    newLogger(),
		config: scraperConfig(),
	}

	if path := viper.GetString("archive"); withArchive && path != "" {
		archive, err := storage.Open(path)
		if err != nil {
			return nil, err
		}
		a.archive = archive
	}

	a.api = api.NewAPI(scraper.New(a.config, a.log), a.archive, a.log)
	return a, nil
}

func (a *app) Close() {
	if a.archive != nil {
		a.archive.Close()
	}
}
