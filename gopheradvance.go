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

package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/debugger"
	"github.com/jetsetilly/gopheradvance/debugger/terminal"
	"github.com/jetsetilly/gopheradvance/debugger/terminal/colorterm"
	"github.com/jetsetilly/gopheradvance/debugger/terminal/plainterm"
	"github.com/jetsetilly/gopheradvance/logger"
	"github.com/jetsetilly/gopheradvance/modalflag"
	"github.com/jetsetilly/gopheradvance/performance"
	"github.com/jetsetilly/gopheradvance/playmode"
	"github.com/jetsetilly/gopheradvance/regression"
	"github.com/jetsetilly/gopheradvance/statsview"
	"github.com/jetsetilly/gopheradvance/version"
)

// SDL wants the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "DEBUG", "PERFORMANCE", "REGRESS", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = play(md)
	case "DEBUG":
		err = debug(md)
	case "PERFORMANCE":
		err = perform(md)
	case "REGRESS":
		err = regress(md)
	case "VERSION":
		v, _ := version.Version()
		fmt.Fprintf(md.Output, "%s (%s)\n", version.ApplicationName, v)
	}

	if err != nil {
		fmt.Printf("* %v\n", err)
		os.Exit(10)
	}
}

func play(md *modalflag.Modes) error {
	md.NewMode()

	scale := md.AddInt("scale", 2, "window scaling factor")
	noFpsCap := md.AddBool("nofpscap", false, "run the emulation at full speed")
	wav := md.AddString("wav", "", "record audio to the named wav file")
	cheat := md.AddString("cheat", "", "cheat codes to apply, separated by semicolons")
	stats := md.AddBool("statsview", false, "run the statistics web server")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(md.Output)
		} else {
			fmt.Fprintln(md.Output, "! statsview not available in this build")
		}
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("cartridge required for %s mode", md)
	case 1:
		cartload := cartridgeloader.NewLoader(md.GetArg(0))

		opts := playmode.Options{
			Scale:    float32(*scale),
			NoFpsCap: *noFpsCap,
			Wav:      *wav,
		}
		if *cheat != "" {
			opts.Cheats = strings.Split(*cheat, ";")
		}

		return playmode.Play(cartload, opts)
	}

	return fmt.Errorf("too many arguments for %s mode", md)
}

func debug(md *modalflag.Modes) error {
	md.NewMode()

	termType := md.AddString("term", "COLOR", "terminal type to use in debug mode: COLOR, PLAIN")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	var term terminal.Terminal

	switch strings.ToUpper(*termType) {
	case "COLOR":
		term = &colorterm.ColorTerminal{}
	case "PLAIN":
		term = &plainterm.PlainTerminal{}
	default:
		fmt.Fprintf(md.Output, "! unknown terminal type (%s) defaulting to plain\n", *termType)
		term = &plainterm.PlainTerminal{}
	}

	dbg := debugger.New(term)

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("cartridge required for %s mode", md)
	case 1:
		return dbg.Start(cartridgeloader.NewLoader(md.GetArg(0)))
	}

	return fmt.Errorf("too many arguments for %s mode", md)
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	profile := md.AddBool("profile", false, "write cpu and memory profiles")
	duration := md.AddString("duration", "5s", "run duration (note: there is a 2s overhead)")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("cartridge required for %s mode", md)
	case 1:
		cartload := cartridgeloader.NewLoader(md.GetArg(0))
		return performance.Check(md.Output, *profile, cartload, *duration)
	}

	return fmt.Errorf("too many arguments for %s mode", md)
}

type yesReader struct{}

func (*yesReader) Read(p []byte) (n int, err error) {
	p[0] = 'y'
	return 1, nil
}

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func regress(md *modalflag.Modes) error {
	md.NewMode()
	md.AddSubModes("RUN", "LIST", "DELETE", "ADD")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "RUN":
		md.NewMode()

		verbose := md.AddBool("verbose", false, "output more detail (eg. error messages)")
		failOnError := md.AddBool("fail", false, "stop on the first error")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		err = regression.RegressRunTests(md.Output, *verbose, *failOnError, md.RemainingArgs())
		if err != nil {
			return err
		}

	case "LIST":
		md.NewMode()

		// no additional arguments

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			err := regression.RegressList(md.Output)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("no additional arguments required for %s mode", md)
		}

	case "DELETE":
		md.NewMode()

		answerYes := md.AddBool("yes", false, "answer yes to confirmation")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			return fmt.Errorf("database key required for %s mode", md)
		case 1:
			// use stdin for confirmation unless "yes" flag has been sent
			var confirmation io.Reader
			if *answerYes {
				confirmation = &yesReader{}
			} else {
				confirmation = os.Stdin
			}

			err := regression.RegressDelete(md.Output, confirmation, md.GetArg(0))
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("only one entry can be deleted at a time")
		}

	case "ADD":
		return regressAdd(md)
	}

	return nil
}

func regressAdd(md *modalflag.Modes) error {
	md.NewMode()

	mode := md.AddString("mode", "video", "digest mode: video, audio, both")
	numframes := md.AddInt("frames", 10, "number of frames to run")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// set debugging log echo. log output would otherwise mangle the
	// regression progress meter
	if *log {
		logger.SetEcho(os.Stdout, false)
		md.Output = &nopWriter{}
	} else {
		logger.SetEcho(nil, false)
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("cartridge required for %s mode", md)
	case 1:
		digestMode, err := regression.ParseDigestMode(*mode)
		if err != nil {
			return err
		}

		reg := &regression.FrameRegression{
			CartridgeFile: md.GetArg(0),
			NumFrames:     *numframes,
			Mode:          digestMode,
		}

		err = regression.RegressAdd(md.Output, reg)
		if err != nil {
			// using carriage return (without newline) at beginning of error
			// message because we want to overwrite the last output from
			// RegressAdd()
			return fmt.Errorf("\rerror adding regression test: %v", err)
		}
	default:
		return fmt.Errorf("regression tests can only be added one at a time")
	}

	return nil
}
