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

package regression_test

import (
	"encoding/binary"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/gopheradvance/regression"
	"github.com/jetsetilly/gopheradvance/test"
)

// a tiny ROM. an increment loop that never touches the display registers
// but produces a stable (blank) frame.
func testROM(t *testing.T, dir string) string {
	t.Helper()

	rom := make([]byte, 0x200)
	prog := []uint32{
		0xe3a00000, // MOV R0, #0
		0xe2800001, // ADD R0, R0, #1
		0xeafffffc, // B (loop)
	}
	for i, w := range prog {
		binary.LittleEndian.PutUint32(rom[i*4:], w)
	}
	copy(rom[0xa0:], "TEST")

	fn := filepath.Join(dir, "regression_test.gba")
	err := ioutil.WriteFile(fn, rom, 0644)
	test.ExpectedSuccess(t, err)

	return fn
}

func TestFrameRegression(t *testing.T) {
	// the regression database lives in the resource path, which in
	// non-release builds is relative to the working directory
	cwd, err := os.Getwd()
	test.ExpectedSuccess(t, err)

	tmp := t.TempDir()
	test.ExpectedSuccess(t, os.Chdir(tmp))
	defer os.Chdir(cwd)

	romFile := testROM(t, tmp)

	output := &strings.Builder{}

	reg := &regression.FrameRegression{
		CartridgeFile: romFile,
		NumFrames:     2,
		Mode:          regression.DigestVideoOnly,
	}
	test.ExpectedSuccess(t, regression.RegressAdd(output, reg))

	// the recorded digest should verify against a fresh run
	output.Reset()
	test.ExpectedSuccess(t, regression.RegressRunTests(output, false, false, nil))
	if !strings.Contains(output.String(), "1 succeed, 0 fail") {
		t.Errorf("unexpected test summary: %s", output.String())
	}

	output.Reset()
	test.ExpectedSuccess(t, regression.RegressList(output))
	if !strings.Contains(output.String(), "Total: 1") {
		t.Errorf("unexpected list output: %s", output.String())
	}

	// delete the entry, answering yes to the confirmation
	output.Reset()
	test.ExpectedSuccess(t, regression.RegressDelete(output, strings.NewReader("y"), "0"))

	output.Reset()
	test.ExpectedSuccess(t, regression.RegressList(output))
	if !strings.Contains(output.String(), "database is empty") {
		t.Errorf("database should be empty: %s", output.String())
	}
}

func TestParseDigestMode(t *testing.T) {
	mode, err := regression.ParseDigestMode("video")
	test.ExpectedSuccess(t, err)
	test.Equate(t, mode == regression.DigestVideoOnly, true)

	mode, err = regression.ParseDigestMode("BOTH")
	test.ExpectedSuccess(t, err)
	test.Equate(t, mode == regression.DigestBoth, true)

	_, err = regression.ParseDigestMode("sometimes")
	test.ExpectedFailure(t, err)
}
