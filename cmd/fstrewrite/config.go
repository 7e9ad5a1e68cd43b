// SPDX-License-Identifier: MIT
package main

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/katalvlaran/wfst/optimize"
	"github.com/katalvlaran/wfst/token"
)

type config struct {
	Alphabet  token.Alphabet
	NBest     int
	Rules     string
	MaxStates int
}

// loadConfig reads .env and the environment first; flags override both.
func loadConfig(args []string) (config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("fstrewrite", flag.ContinueOnError)
	alphabet := fs.String("alphabet", envOr("WFST_ALPHABET", "byte"), "token alphabet: byte, utf8 or symbol")
	nbest := fs.Int("n", envInt("WFST_NBEST", 1), "number of rewrites per input line")
	rules := fs.String("rules", os.Getenv("WFST_RULES"), "tab-separated rule file")
	maxStates := fs.Int("max-states", envInt("WFST_MAX_STATES", optimize.DefaultMaxStates), "determinization state cap (0 = none)")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	a, err := token.ParseAlphabet(*alphabet)
	if err != nil {
		return config{}, errors.Wrap(err, "config")
	}
	if *rules == "" {
		return config{}, errors.New("config: -rules (or WFST_RULES) is required")
	}
	if *nbest < 1 {
		return config{}, errors.Errorf("config: -n must be positive, got %d", *nbest)
	}
	if *maxStates < 0 {
		return config{}, errors.Errorf("config: -max-states must be non-negative, got %d", *maxStates)
	}

	return config{Alphabet: a, NBest: *nbest, Rules: *rules, MaxStates: *maxStates}, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}

	return n
}
