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

// AddConstraint registers c of concrete type C under typeName on m, creating the keeper on first
// use, and returns its index (deduplicated per ConstraintKeeper.Add's CSE rule when C is keyable).
// This is the one generic entry point every redefine_*.go file and every caller assembling a
// FlatModel by hand goes through; keeper.go's ConstraintKeeper stays unexported-construction so
// every keeper in a model is reachable via FlatModel.Keepers() for RunConversion.
func AddConstraint[C Constraint](m *FlatModel, typeName string, c C) (idx int, isNew bool) {
	idx, isNew = Keeper[C](m, typeName).Add(c)
	if isNew {
		if rh, ok := any(c).(resultHolder); ok {
			if v, has := rh.ResultVar(); has {
				m.setInitExpr(v, typeName, idx)
			}
		}
	}
	return idx, isNew
}
