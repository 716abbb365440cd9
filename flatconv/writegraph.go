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
	"os"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// writePresolveGraph dumps the value-presolver DAG as newline-delimited JSON, one object per Link,
// to path. Reusing structpb/protojson for this keeps the debug exporter on the same serialization
// library the rest of the pack depends on (protobuf, already required for
// ortools/sat/go/cpmodel's own CpModelProto plumbing) rather than adding encoding/json or a YAML
// library solely for this one diagnostic (spec.md §7 "tech:writegraph").
func writePresolveGraph(m *FlatModel, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	marshaler := protojson.MarshalOptions{}
	for i, link := range m.Presolver().Links() {
		rec, err := linkToStruct(i, link)
		if err != nil {
			return err
		}
		line, err := marshaler.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling link %d: %w", i, err)
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("writing link %d: %w", i, err)
		}
	}
	return nil
}

func linkToStruct(seq int, l Link) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"seq":         float64(seq),
		"source_node": l.Source.Node.name,
		"source_first": float64(l.Source.First),
		"source_size":  float64(l.Source.Size),
		"target_node":  l.Target.Node.name,
		"target_first": float64(l.Target.First),
		"target_size":  float64(l.Target.Size),
		"aggregator":   aggregatorName(l.Agg),
	})
}

func aggregatorName(a Aggregator) string {
	switch a {
	case AggSum:
		return "sum"
	case AggFirst:
		return "first"
	case AggFirstNonzero:
		return "first_nonzero"
	default:
		return "unknown"
	}
}
