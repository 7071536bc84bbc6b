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

package cartridgeloader

import (
	"crypto/sha1"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/jetsetilly/gopheradvance/curated"
)

// locations of the metadata fields in the cartridge header.
const (
	headerTitle    = 0xa0
	headerGameCode = 0xac
	headerMaker    = 0xb0
	headerMinSize  = 0xc0
)

// Loader is used to specify the cartridge to use when Attach()ing to the
// console.
type Loader struct {
	// filename of cartridge to load
	Filename string

	// expected hash of the loaded cartridge. empty string indicates that
	// the hash is unknown and need not be validated. after a load
	// operation the value will be the hash of the loaded data
	Hash string

	// copy of the loaded data. subsequent calls to Load() will return a
	// copy of this data
	Data []byte

	// metadata from the cartridge header, valid after Load()
	Title     string
	GameCode  string
	MakerCode string

	// region of the cartridge, inferred from the fourth character of the
	// game code
	Region string
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string) Loader {
	return Loader{Filename: filename}
}

// ShortName returns a shortened version of the ROM filename.
func (cl Loader) ShortName() string {
	shortCartName := path.Base(cl.Filename)
	shortCartName = strings.TrimSuffix(shortCartName, path.Ext(cl.Filename))
	return shortCartName
}

// HasLoaded returns true if Load() has been successfully called.
func (cl Loader) HasLoaded() bool {
	return len(cl.Data) > 0
}

// Load the cartridge data and verify the hash. The header metadata fields
// are filled in on success.
func (cl *Loader) Load() error {
	if len(cl.Data) > 0 {
		cl.readHeader()
		return nil
	}

	scheme := "file"

	u, err := url.Parse(cl.Filename)
	if err == nil {
		scheme = u.Scheme
	}

	switch scheme {
	case "http":
		fallthrough
	case "https":
		resp, err := http.Get(cl.Filename)
		if err != nil {
			return curated.Errorf("cartridgeloader: %v", err)
		}
		defer resp.Body.Close()

		cl.Data, err = ioutil.ReadAll(resp.Body)
		if err != nil {
			return curated.Errorf("cartridgeloader: %v", err)
		}

	case "file":
		fallthrough
	default:
		f, err := os.Open(cl.Filename)
		if err != nil {
			return curated.Errorf("cartridgeloader: %v", err)
		}
		defer f.Close()

		cl.Data, err = ioutil.ReadAll(f)
		if err != nil {
			return curated.Errorf("cartridgeloader: %v", err)
		}
	}

	// generate hash and check for consistency
	hash := fmt.Sprintf("%x", sha1.Sum(cl.Data))
	if cl.Hash != "" && cl.Hash != hash {
		return curated.Errorf("cartridgeloader: %v", "unexpected hash value")
	}
	cl.Hash = hash

	cl.readHeader()

	return nil
}

// readHeader decodes the title, game code and maker code fields of the
// cartridge header. A ROM too small to have a header leaves the fields
// empty.
func (cl *Loader) readHeader() {
	if len(cl.Data) < headerMinSize {
		return
	}

	cl.Title = trimField(cl.Data[headerTitle : headerTitle+12])
	cl.GameCode = trimField(cl.Data[headerGameCode : headerGameCode+4])
	cl.MakerCode = trimField(cl.Data[headerMaker : headerMaker+2])
	cl.Region = regionFromGameCode(cl.GameCode)
}

func trimField(b []byte) string {
	s := strings.TrimRight(string(b), "\x00")
	if !isPrintable(s) {
		return ""
	}
	return s
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}
