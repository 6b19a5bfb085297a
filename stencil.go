/*
Copyright © 2017 the spray authors.
This file is part of spray.

spray is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

spray is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with spray.  If not, see <http://www.gnu.org/licenses/>.
*/

package spray

import "gonum.org/v1/gonum/floats"

// Stencil is a set of up to eight neighbor cells and interpolation
// weights around an off-grid position.
type Stencil struct {
	Index  [8][3]int
	Weight [8]float64
}

// Sum returns the sum of the weights.
func (s *Stencil) Sum() float64 { return floats.Sum(s.Weight[:]) }

// Single sets the stencil to weight 1 on cell c.
func (s *Stencil) Single(c [3]int) {
	for i := range s.Index {
		s.Index[i] = c
		s.Weight[i] = 0
	}
	s.Weight[0] = 1
}
