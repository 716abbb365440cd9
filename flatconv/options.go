// Copyright 2026 The Flatconv Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package flatconv

import (
	"fmt"
	"strconv"
	"strings"
)

// Options holds the parsed form of the colon-separated option strings flatconv accepts (spec.md
// §6 "Options"). Parsing stays on the standard library: no example in the pack reaches for a
// flag/config library (viper, pflag, koanf) for anything this small, and
// ortools/sat/go/cpmodel/cp_solver.go itself parses its own comma/colon-separated solver parameter
// strings by hand rather than pulling in a dependency for it.
type Options struct {
	// AccTags overrides acceptance for specific (typeName -> Acceptance) pairs, set via
	// "acc:<tag>" (spec.md §6.1).
	AccTags map[string]Acceptance

	// PreAll enables every optional preprocessing micro-pass ("cvt:pre:all").
	PreAll bool
	// PreEqResult enables the eqresult micro-pass alone ("cvt:pre:eqresult"); independent of
	// PreEqBinary (spec.md §11, supplemented from original_source/: the original gates these two
	// passes separately rather than behind one flag).
	PreEqResult bool
	// PreEqBinary enables the eqbinary micro-pass alone ("cvt:pre:eqbinary").
	PreEqBinary bool

	// AlgRelax solves the LP relaxation only, skipping branch-and-bound ("alg:relax").
	AlgRelax bool

	// WriteGraphPath is the destination file for the NDJSON presolve-graph dump
	// ("tech:writegraph <path>"), empty when not requested.
	WriteGraphPath string
}

const (
	accTagPrefix = "acc:"
	preAllOpt    = "cvt:pre:all"
	preEqResult  = "cvt:pre:eqresult"
	preEqBinary  = "cvt:pre:eqbinary"
	algRelaxOpt  = "alg:relax"
	writeGraphOp = "tech:writegraph"
)

// ParseOptions parses a sequence of option tokens (already whitespace-split by the caller, except
// for "tech:writegraph <path>" which consumes the following token as its argument).
func ParseOptions(tokens []string) (Options, error) {
	opt := Options{AccTags: make(map[string]Acceptance)}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case strings.HasPrefix(tok, accTagPrefix):
			if err := parseAccTag(tok, &opt); err != nil {
				return Options{}, err
			}
		case tok == preAllOpt:
			opt.PreAll = true
		case tok == preEqResult:
			opt.PreEqResult = true
		case tok == preEqBinary:
			opt.PreEqBinary = true
		case tok == algRelaxOpt:
			opt.AlgRelax = true
		case tok == writeGraphOp:
			if i+1 >= len(tokens) {
				return Options{}, fmt.Errorf("%w: %s requires a path argument", ErrInvalidOption, writeGraphOp)
			}
			i++
			opt.WriteGraphPath = tokens[i]
		default:
			return Options{}, fmt.Errorf("%w: %q", ErrInvalidOption, tok)
		}
	}
	return opt, nil
}

// parseAccTag parses "acc:<TypeName>=<level>" where level is one of 0, 1, 2 (NotAccepted,
// AcceptedButNotRecommended, Recommended).
func parseAccTag(tok string, opt *Options) error {
	body := strings.TrimPrefix(tok, accTagPrefix)
	name, levelStr, ok := strings.Cut(body, "=")
	if !ok || name == "" {
		return fmt.Errorf("%w: %q (want acc:<TypeName>=<level>)", ErrInvalidOption, tok)
	}
	level, err := strconv.Atoi(levelStr)
	if err != nil || level < int(NotAccepted) || level > int(Recommended) {
		return fmt.Errorf("%w: %q has an invalid level", ErrInvalidOption, tok)
	}
	opt.AccTags[name] = Acceptance(level)
	return nil
}

// effectiveAcceptance applies any acc:<tag> override from opt on top of the ModelAPI's own answer.
func effectiveAcceptance(opt Options, api ModelAPI, typeName string) Acceptance {
	if override, ok := opt.AccTags[typeName]; ok {
		return override
	}
	return api.Accepts(typeName)
}
