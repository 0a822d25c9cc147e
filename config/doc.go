// Package config loads sgacorrect configuration.
//
// It uses Viper to merge, from lowest to highest precedence: a YAML config
// file, a .env file and the process environment (variables carrying the
// configured prefix, e.g. SGACORRECT_THREADS), and command-line flags
// bound from a pflag.FlagSet.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("sgacorrect", &cfg,
//	    config.WithFlags(flags),
//	    config.WithEnvPrefix("SGACORRECT"),
//	)
//
// Flag names map to keys by replacing dashes with underscores, so
// --kmer-size populates the kmer_size key.
package config
