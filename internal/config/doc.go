// Package config loads aesdsocket settings. Default() is the baseline, Load
// overlays a JSON or YAML file, and FromEnv overlays AESD_* variables.
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
