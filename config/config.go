// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config defines the configuration of the entail reasoner. It can be
// loaded from a JSON or YAML file.
package config

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Entail is the top-level configuration structure.
type Entail struct {
	// MaxPasses bounds the passes of each inference stage. Zero means the
	// default of 1000.
	MaxPasses int `json:"maxPasses,omitempty" yaml:"maxPasses,omitempty" validate:"gte=0"`
	// Workers bounds how many evaluations run concurrently within a pass.
	// Zero means one per CPU.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty" validate:"gte=0,lte=1024"`
	// DisabledChecks names validity checks to skip.
	DisabledChecks []string `json:"disabledChecks,omitempty" yaml:"disabledChecks,omitempty" validate:"dive,oneof=disjoint nothing range-kind range-datatype ill-formed-literal functional inverse-functional"`
	// ReapplySchema alternates schema closure and rules until neither adds
	// anything. By default, the rules run once over the schema closure.
	ReapplySchema bool `json:"reapplySchema,omitempty" yaml:"reapplySchema,omitempty"`
	// SkipSchema disables schema closure.
	SkipSchema bool `json:"skipSchema,omitempty" yaml:"skipSchema,omitempty"`
	// SkipValidation disables the validity checks.
	SkipValidation bool `json:"skipValidation,omitempty" yaml:"skipValidation,omitempty"`
	// Prefixes maps prefix names to namespace IRIs. They're used when writing
	// the output graph, in addition to the prefixes declared in the inputs.
	Prefixes map[string]string `json:"prefixes,omitempty" yaml:"prefixes,omitempty" validate:"dive,keys,prefixname,endkeys,required"`
}

// Default returns the configuration used when no file is given.
func Default() *Entail {
	return &Entail{}
}

var (
	validate       = validator.New()
	prefixNameExpr = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_.-]*)?$`)
)

func init() {
	err := validate.RegisterValidation("prefixname", func(fl validator.FieldLevel) bool {
		return prefixNameExpr.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Validate checks the configuration's values. The returned error describes
// every invalid field.
func (cfg *Entail) Validate() error {
	return validate.Struct(cfg)
}
