// Copyright 2025 Google LLC
//
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

package diff

import (
	"github.com/gx-org/exprgraph/expr"
)

// Mode selects the single-step differentiation algorithm. Forward mode
// suits few inputs and many outputs; reverse mode suits many inputs and
// few outputs.
type Mode int

const (
	// ModeForward is the default.
	ModeForward Mode = iota
	// ModeReverse evaluates forward then accumulates adjoints backward.
	ModeReverse
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeForward:
		return "forward"
	case ModeReverse:
		return "reverse"
	}
	return "unknown"
}

// Diff applies n single-step differentiations of e with respect to v using
// the algorithm selected by mode. Diff(e, v, 0, mode) returns e.
func (r *Rules) Diff(e, v *expr.Expr, n int, mode Mode) (*expr.Expr, error) {
	step := r.Forward
	if mode == ModeReverse {
		step = r.Reverse
	}
	deriv := e
	for range n {
		var err error
		deriv, err = step(deriv, v)
		if err != nil {
			return nil, err
		}
	}
	return deriv, nil
}
