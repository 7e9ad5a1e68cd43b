// SPDX-License-Identifier: MIT
// Command fstrewrite applies a file of context-dependent rewrite rules to
// every line of standard input.
//
// Usage:
//
//	fstrewrite -rules rules.tsv [-alphabet byte|utf8|symbol] [-n 1] [-max-states N] < words.txt
//
// The flags default to WFST_RULES, WFST_ALPHABET, WFST_NBEST and
// WFST_MAX_STATES, which may also be set in a .env file.
package main

import (
	"context"
	"log"
	"os"

	"github.com/katalvlaran/wfst/grammar"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	g, err := grammar.New(grammar.WithAlphabet(cfg.Alphabet), grammar.WithMaxStates(cfg.MaxStates))
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Open(cfg.Rules)
	if err != nil {
		log.Fatal(err)
	}
	rules, err := loadRules(context.Background(), g, f)
	_ = f.Close()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("compiled %d rules from %s", len(rules), cfg.Rules)

	if err := run(g, rules, cfg.NBest, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
