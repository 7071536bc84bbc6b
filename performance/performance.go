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

package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/setup"
)

// checking the timer channel is relatively expensive so we only do it every
// performanceBrake instructions
const performanceBrake = 1024

// Check is a very rough and ready calculation of the emulator's performance.
//
// Emulation will run for the specified duration and will optionally create a
// cpu and memory profile.
func Check(output io.Writer, profile bool, cartload cartridgeloader.Loader, runTime string) error {
	gba := hardware.NewGBA()

	err := setup.AttachCartridge(gba, cartload)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}

	// parse supplied duration
	duration, err := time.ParseDuration(runTime)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}

	// get starting frame number (should be 0)
	startFrame := gba.PPU.FrameNum()

	// run for specified period of time
	err = cpuProfile(profile, "cpu.profile", func() error {
		// setup trigger that expires when duration has elapsed
		timesUp := make(chan bool)

		// force a two second leadtime to allow the emulation to get through
		// any BIOS and boot sequences and then restart the timer for the
		// specified duration
		go func() {
			time.AfterFunc(2*time.Second, func() {
				startFrame = gba.PPU.FrameNum()
				time.AfterFunc(duration, func() {
					timesUp <- true
				})
			})
		}()

		// run until specified time elapses
		brake := 0
		for {
			gba.Step()

			brake++
			if brake >= performanceBrake {
				brake = 0
				select {
				case <-timesUp:
					return nil
				default:
				}
			}
		}
	})
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}

	// get ending frame number
	endFrame := gba.PPU.FrameNum()

	numFrames := endFrame - startFrame
	fps, accuracy := CalcFPS(numFrames, duration.Seconds())
	output.Write([]byte(fmt.Sprintf("%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, numFrames, duration.Seconds(), accuracy)))

	return memProfile(profile, "mem.profile")
}
