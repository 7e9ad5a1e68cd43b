// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfst/grammar"
	"github.com/katalvlaran/wfst/optimize"
	"github.com/katalvlaran/wfst/rewrite"
	"github.com/katalvlaran/wfst/token"
)

const ruleFile = `# c becomes k word-initially
c	k	^	

# final devoicing
d	t		$
# drop h before t, optionally
h		i	t	ltr	optional
`

func TestLoadRulesAndRun(t *testing.T) {
	g, err := grammar.New()
	require.NoError(t, err)

	rules, err := loadRules(context.Background(), g, strings.NewReader(ruleFile))
	require.NoError(t, err)
	require.Len(t, rules, 3)

	var out bytes.Buffer
	require.NoError(t, run(g, rules, 1, strings.NewReader("cad\ntic\n"), &out))
	assert.Equal(t, "cad\tkat\ntic\ttic\n", out.String())

	out.Reset()
	require.NoError(t, run(g, rules, 2, strings.NewReader("niht\n"), &out))
	fields := strings.Split(strings.TrimSpace(out.String()), "\t")
	require.Len(t, fields, 3)
	assert.ElementsMatch(t, []string{"nit", "niht"}, fields[1:])
}

func TestRun_CodepointInput(t *testing.T) {
	g, err := grammar.New(grammar.WithAlphabet(token.Codepoint))
	require.NoError(t, err)
	rules, err := loadRules(context.Background(), g, strings.NewReader("a\tb\t\t\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(g, rules, 1, strings.NewReader("ñaa\nüber a\n"), &out))
	assert.Equal(t, "ñaa\tñbb\nüber a\tüber b\n", out.String())
}

func TestParseRule_Errors(t *testing.T) {
	g, err := grammar.New()
	require.NoError(t, err)

	tests := []struct {
		name string
		row  []string
		want error
	}{
		{"too few columns", []string{"a", "b", ""}, nil},
		{"too many columns", []string{"a", "b", "", "", "ltr", "optional", "x"}, nil},
		{"bad direction", []string{"a", "b", "", "", "up"}, rewrite.ErrType},
		{"bad mode", []string{"a", "b", "", "", "ltr", "maybe"}, rewrite.ErrType},
		{"bad encoding", []string{"a\x00", "b", "", ""}, token.ErrEncoding},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseRule(g, tc.row)
			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestContextOf(t *testing.T) {
	g, err := grammar.New()
	require.NoError(t, err)

	m, err := contextOf(g, "")
	require.NoError(t, err)
	assert.Nil(t, m)

	for _, s := range []string{"^", "$", "^a", "a$", "^ab$", "ab"} {
		m, err := contextOf(g, s)
		require.NoError(t, err, s)
		assert.False(t, m.Empty(), s)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("WFST_ALPHABET", "utf8")
	t.Setenv("WFST_NBEST", "3")
	t.Setenv("WFST_RULES", "env.tsv")
	t.Setenv("WFST_MAX_STATES", "")

	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, token.Codepoint, cfg.Alphabet)
	assert.Equal(t, 3, cfg.NBest)
	assert.Equal(t, "env.tsv", cfg.Rules)
	assert.Equal(t, optimize.DefaultMaxStates, cfg.MaxStates)

	cfg, err = loadConfig([]string{"-rules", "flag.tsv", "-n", "2", "-alphabet", "byte"})
	require.NoError(t, err)
	assert.Equal(t, token.Byte, cfg.Alphabet)
	assert.Equal(t, 2, cfg.NBest)
	assert.Equal(t, "flag.tsv", cfg.Rules)

	_, err = loadConfig([]string{"-n", "0"})
	assert.Error(t, err)

	t.Setenv("WFST_RULES", "")
	_, err = loadConfig(nil)
	assert.Error(t, err)
}
