// This file is part of GopherAdvance.
//
// GopherAdvance is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherAdvance is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherAdvance.  If not, see <https://www.gnu.org/licenses/>.

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function, which takes a
// formatting pattern and placeholder values, like the function of the same
// name in the fmt package.
//
// The Is() function can be used to check whether an error was created by
// Errorf() with a specific pattern. For example:
//
//	e := curated.Errorf("eeprom: %v", v)
//
//	if curated.Is(e, "eeprom: %v") {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain, rather than just at the outermost level. IsAny() answers
// whether the error was created by curated.Errorf() at all - whether it is
// 'curated' or 'uncurated'. Depending on context we might also think of this
// as the difference between errors that are 'expected' and 'unexpected'.
//
// The Error() implementation normalises the error chain so that it does not
// contain duplicate adjacent parts. The practical advantage of this is that
// functions can wrap errors with their own identifying part without worrying
// about whether the callee has already done so.
//
// For the purposes of this package a chain is composed of parts separated by
// the sub-string ': ' as suggested on p239 of "The Go Programming Language"
// (Donovan, Kernighan).
//
// Sentinal errors are achieved in practice by storing the pattern as a const
// string and testing with the Is() and Has() functions.
package curated
