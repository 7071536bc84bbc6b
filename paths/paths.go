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

// Package paths should be used whenever a request to the filesystem is
// made. The functions herein make sure that the correct path (depending on
// the operating system being targeted and the build tags used) is used for
// the resource.
//
// Because this package handles project specific details it should be used
// instead of the Go standard path package.
package paths

import "path"

// ResourcePath returns the resource string (representing the resource to be
// loaded) prepended with the appropriate configuration path for the
// application. any directories in the path that do not exist are created.
func ResourcePath(subPth string, file string) (string, error) {
	pth, err := getBasePath(subPth)
	if err != nil {
		return "", err
	}
	return path.Join(pth, file), nil
}
