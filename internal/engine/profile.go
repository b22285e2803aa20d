/*
PURPOSE:
  Engine profiles. Decides which on-device inference engine produced a
  record, how that engine spells model names, and which model family a
  record belongs to.

REQUIREMENTS:
  User-specified:
  - Three engines: ExecuTorch, MLC, llama.cpp (fallback).
  - A fixed table of known model files wins over every transform.
  - MLC identifiers are rewritten into "<model words> <quant>".

  Implementation-discovered:
  - Each engine is one Profile value bundling predicate, transform and
    family rule. Adding an engine is adding one entry to Profiles.

ARCHITECTURE INTEGRATION:
  - Called by: internal/derive, internal/cli (models)
  - Uses: internal/model

ERROR HANDLING:
  - Family() fails when a llama.cpp record carries no family field.

IMPLEMENTATION RULES:
  - Profiles are matched in order; the last one must match everything.

USAGE:
  p := engine.Classify(rec.Version)
  label := p.Normalize(rec.Model)

SELF-HEALING INSTRUCTIONS:
  - If an app changes its version prefix, update the profile predicate.

RELATED FILES:
  - internal/derive/flatten.go

MAINTENANCE:
  - Update knownModels when new ExecuTorch .pte exports are benchmarked.
*/

package engine

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/daryltucker/forest-bench/internal/ingest"
	"github.com/daryltucker/forest-bench/internal/model"
)

// Application names as they appear in the "application" column.
const (
	ExecuTorch = "ExecuTorch"
	MLC        = "MLC"
	LlamaCpp   = "llama.cpp"
)

// Model families shared by ExecuTorch and MLC records.
const (
	FamilyLlama31 = "Llama 3.1 8B"
	FamilyLlama32 = "Llama 3.2 3B"
)

// knownModels maps literal model files to their display label.
var knownModels = map[string]string{
	"llama3_2_3B_spinquant.pte": "Llama 3.2 3B SpinQuant",
	"llama3_2_3B_bf16.pte":      "Llama 3.2 3B BF16",
	"llama3_1_8b_spinquant.pte": "Llama 3.1 8B SpinQuant",
}

// Profile describes one inference engine.
type Profile struct {
	Name string
	// Match reports whether a record's version string belongs to this engine.
	Match func(version string) bool
	// Transform rewrites an engine-specific model identifier.
	Transform func(raw string) string
	// Family derives the model family of a record.
	Family func(rec *model.RawBenchmarkRecord) (string, error)
}

// Profiles in match order. The last entry is the fallback.
var Profiles = []Profile{
	{
		Name:      ExecuTorch,
		Match:     prefix("ExecutorTorch"),
		Transform: identity,
		Family:    familyFromModel,
	},
	{
		Name:      MLC,
		Match:     prefix("MLC"),
		Transform: TransformMLC,
		Family:    familyFromModel,
	},
	{
		Name:      LlamaCpp,
		Match:     func(string) bool { return true },
		Transform: identity,
		Family:    familyFromRecord,
	},
}

// Classify returns the profile of the engine that produced version.
func Classify(version string) Profile {
	for _, p := range Profiles {
		if p.Match(version) {
			return p
		}
	}
	return Profiles[len(Profiles)-1]
}

// Normalize maps a raw model identifier to its canonical label.
func (p Profile) Normalize(raw string) string {
	if label, ok := knownModels[raw]; ok {
		return label
	}
	return p.Transform(raw)
}

// TransformMLC rewrites "Llama-3.1-8B-Instruct-q4f16_1-MLC" as "Llama 3.1 8B q4f16_1".
func TransformMLC(name string) string {
	name = strings.TrimSuffix(name, "-MLC")
	name = strings.ReplaceAll(name, "-Instruct-", "-")

	parts := strings.Split(name, "-")
	if last := parts[len(parts)-1]; strings.Contains(last, "_") {
		return strings.Join(parts[:len(parts)-1], " ") + " " + last
	}
	return strings.ReplaceAll(name, "-", " ")
}

func prefix(p string) func(string) bool {
	return func(version string) bool { return strings.HasPrefix(version, p) }
}

func identity(s string) string { return s }

func familyFromModel(rec *model.RawBenchmarkRecord) (string, error) {
	if strings.Contains(rec.Model, "3.1") {
		return FamilyLlama31, nil
	}
	return FamilyLlama32, nil
}

func familyFromRecord(rec *model.RawBenchmarkRecord) (string, error) {
	f := gjson.GetBytes(rec.Raw, "family")
	if !f.Exists() || f.Type == gjson.Null {
		return "", ingest.MissingField("family")
	}
	return f.String(), nil
}
