// SPDX-License-Identifier: MIT
// Package wfst compiles declarative grammar fragments into weighted
// finite-state transducers and extracts readable output from them.
//
// 🚀 What is in the box?
//
//	• Strings and string-pair tables -> transducers over a byte, codepoint
//	  or symbol alphabet
//	• Context-dependent rewrite rules (obligatory or optional; left-to-right,
//	  right-to-left or simultaneous), compiled with marker filters
//	• Lenient composition with fallback to the previous stage
//	• Canonicalization (epsilon removal, determinization, minimization)
//	• Shortest path, n-best and enumeration of string paths
//
// Packages, leaves first:
//
//	semiring/       Tropical, Log and Probability weights
//	fst/            arena WFST, symbol tables and the automaton algebra
//	token/          text <-> label codecs
//	compile/        String, Pair, Map, Table
//	cross/          Cross and Range
//	optimize/       Optimize, InPlace
//	rewrite/        rewrite-rule compiler
//	lenient/        Compose, PriorityUnion, Cascade
//	paths/          ShortestPath, Iterator, StringAt, Apply
//	grammar/        a session tying the above together
//	cmd/fstrewrite  applies a rule file to standard input
//
// Quick example:
//
//	g, _ := grammar.New()
//	c, _ := g.String("c")
//	k, _ := g.String("k")
//	rule, _ := g.Rule(rewrite.Spec{Tau: c, Phi: k, Lambda: rewrite.BeginningOfString()})
//	out, _ := g.Rewrite("cat", 1, rule) // ["kat"]
//
// Every operator returns a new machine; published machines are read-only.
// optimize.InPlace is the one mutating call and needs exclusive access.
package wfst
