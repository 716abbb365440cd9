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
	"errors"
	"fmt"

	log "github.com/golang/glog"
)

// Sentinel errors returned (wrapped with context via fmt.Errorf("%w", ...)) by options parsing,
// conversion, and bound computation. Callers use errors.Is against these, following
// ortools/sat/go/cpmodel/cp_model.go's own preference for returning errors rather than calling
// log.Fatalf inside library code (its checkSameModelAndSetErrorf pattern: record the problem and
// let the caller decide, never crash the process from inside the library).
var (
	// ErrInvalidOption is returned by ParseOptions when an option string is not recognized or its
	// argument is malformed.
	ErrInvalidOption = errors.New("flatconv: invalid option")

	// ErrConstraintConversionFailure is returned when a constraint type has no registered
	// redefinition rule and the target ModelAPI does not accept it natively.
	ErrConstraintConversionFailure = errors.New("flatconv: constraint type not accepted and has no conversion rule")

	// ErrUnboundedBigM is returned when a redefinition needs a finite big-M coefficient (e.g. an
	// indicator-to-linear reformulation) but the controlled expression's bound is infinite.
	ErrUnboundedBigM = errors.New("flatconv: cannot compute a finite big-M coefficient")

	// ErrInfeasibleDomain is returned when bound propagation derives LB > UB for some variable.
	ErrInfeasibleDomain = errors.New("flatconv: propagated bounds are infeasible")

	// ErrSolverNative wraps an error surfaced by a Backend's own Solve call.
	ErrSolverNative = errors.New("flatconv: solver reported an error")

	// ErrDuplicateMapInsert is returned by RedefineVariable when asked to rebind a variable index
	// that the fixed-value cache already holds as a constant.
	ErrDuplicateMapInsert = errors.New("flatconv: duplicate insert into fixed-value cache")

	// ErrUnsupportedObjective is returned by SetObjective for any objective index other than 0.
	// DESIGN.md records this as the resolution of spec.md's multi-objective Open Question: rather
	// than silently ignoring a second objective, flatconv rejects it explicitly.
	ErrUnsupportedObjective = errors.New("flatconv: only a single objective (index 0) is supported")
)

// logErrorf formats err, logs it via glog at the point of detection (checkSameModelAndSetErrorf's
// log-and-store pattern), and returns it for the caller to propagate.
func logErrorf(format string, a ...any) error {
	err := fmt.Errorf(format, a...)
	log.Errorf("%v", err)
	return err
}
