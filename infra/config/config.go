package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/drakos74/free-dose/internal/ensemble"
	"github.com/rs/zerolog/log"
)

// File is the JSON shape of the fit pipeline configuration.
type File struct {
	Alpha            *float64 `json:"alpha"`
	BootstrapSamples *int     `json:"bootstrap_samples"`
	CVFolds          *int     `json:"cv_folds"`
	UseBootstrap     *bool    `json:"use_bootstrap"`
	UseCV            *bool    `json:"use_cv"`
	Parallelism      *int     `json:"parallelism"`
	Seed             *int64   `json:"seed"`
}

// MustLoad reads fit options from the given JSON file, with absent fields
// keeping their defaults. A missing or malformed file is a setup error.
func MustLoad(path string) ensemble.Options {
	opts := ensemble.DefaultOptions()
	if path == "" {
		return opts
	}

	b, err := ioutil.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("could not load config from %s: %s", path, err.Error()))
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		panic(fmt.Sprintf("could not unmarshal the config from %s: %s", path, err.Error()))
	}

	if f.Alpha != nil {
		opts.Alpha = *f.Alpha
	}
	if f.BootstrapSamples != nil {
		opts.BootstrapSamples = *f.BootstrapSamples
	}
	if f.CVFolds != nil {
		opts.CVFolds = *f.CVFolds
	}
	if f.UseBootstrap != nil {
		opts.UseBootstrap = *f.UseBootstrap
	}
	if f.UseCV != nil {
		opts.UseCV = *f.UseCV
	}
	if f.Parallelism != nil {
		opts.Parallelism = *f.Parallelism
	}
	if f.Seed != nil {
		opts.Seed = *f.Seed
	}

	log.Info().Str("path", path).Msg("loaded fit config")

	return opts
}
