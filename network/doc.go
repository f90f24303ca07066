/*
 * doc.go, part of mkmkit.
 *
 * Copyright 2026 The mkmkit authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*
Package network evaluates reaction networks built from state documents.

A network definition names stable states and transition states, each read from a state
document, and elementary steps that reference them with stoichiometric coefficients.
Surf steps have a forward and a backward block, each with its initial and transition
states. Ads steps go from initial to final states. Paths are sequences of steps, each
scaled by a factor.

Resolve binds every name in the definition, so that a resolved Network can always be
evaluated. For each direction of a step, the electronic energy difference is divided by
the normalization of the block, while the zero-point energy correction is not.

	N, err := network.Load("network.yaml")
	if err != nil {
		return err
	}
	for _, r := range N.Evaluate() {
		fmt.Println(r.Step.Name, r.ReactionHeat())
	}
*/
package network
