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

package regression

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/database"
	"github.com/jetsetilly/gopheradvance/debugger/terminal/colorterm/easyterm/ansi"
	"github.com/jetsetilly/gopheradvance/paths"
)

// the location of the regression database file.
const regressionPath = "regression"
const regressionDBFile = "db"

// Regressor is the generic entry type in the regression database.
type Regressor interface {
	database.Entry

	// perform the regression test for the regression type. the
	// newRegression flag causes the test to record a new result rather than
	// compare against a previous one.
	//
	// message is the string that is to be printed during the regression
	regress(newRegression bool, output io.Writer, message string) (bool, error)
}

// when starting a database session we need to register what entries we will
// find in the database.
func initDBSession(db *database.Session) error {
	return db.RegisterEntryType(frameEntryID, deserialiseFrameEntry)
}

// RegressList displays all entries in the database.
func RegressList(output io.Writer) error {
	dbPth, err := paths.ResourcePath(regressionPath, regressionDBFile)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}

	db, err := database.StartSession(dbPth, database.ActivityReading, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(false)

	return db.List(output)
}

// RegressDelete removes an entry from the regression database. the
// confirmation reader is used to confirm the deletion.
func RegressDelete(output io.Writer, confirmation io.Reader, key string) error {
	v, err := strconv.Atoi(key)
	if err != nil {
		return curated.Errorf("regression: invalid key (%s)", key)
	}

	dbPth, err := paths.ResourcePath(regressionPath, regressionDBFile)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}

	db, err := database.StartSession(dbPth, database.ActivityModifying, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(true)

	ent, err := db.Get(v)
	if err != nil {
		return err
	}

	output.Write([]byte(fmt.Sprintf("%s\ndelete? (y/n): ", ent)))

	confirm := make([]byte, 32)
	_, err = confirmation.Read(confirm)
	if err != nil {
		return err
	}

	if confirm[0] == 'y' || confirm[0] == 'Y' {
		err = db.Delete(v)
		if err != nil {
			return err
		}
		output.Write([]byte(fmt.Sprintf("deleted test #%s from regression database\n", key)))
	}

	return nil
}

// RegressAdd adds a new regression test to the database. the test is run
// once to record the result that future runs will be compared against.
func RegressAdd(output io.Writer, reg Regressor) error {
	dbPth, err := paths.ResourcePath(regressionPath, regressionDBFile)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}

	db, err := database.StartSession(dbPth, database.ActivityCreating, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(true)

	msg := fmt.Sprintf("adding: %s", reg)
	ok, err := reg.regress(true, output, msg)
	if !ok || err != nil {
		return err
	}

	output.Write([]byte(ansi.ClearLine))
	output.Write([]byte(fmt.Sprintf("\radded: %s\n", reg)))

	return db.Add(reg)
}

// RegressRunTests runs the tests in the regression database. the filterKeys
// list specifies which entries to test. an empty list means that every
// entry should be tested.
func RegressRunTests(output io.Writer, verbose bool, failOnError bool, filterKeys []string) error {
	dbPth, err := paths.ResourcePath(regressionPath, regressionDBFile)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}

	db, err := database.StartSession(dbPth, database.ActivityReading, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(false)

	// make sure any supplied keys list is in order
	keysV := make([]int, 0, len(filterKeys))
	for k := range filterKeys {
		v, err := strconv.Atoi(filterKeys[k])
		if err != nil {
			return curated.Errorf("regression: invalid key (%s)", filterKeys[k])
		}
		keysV = append(keysV, v)
	}
	sort.Ints(keysV)

	numSucceed := 0
	numFail := 0
	numError := 0

	defer func() {
		output.Write([]byte(fmt.Sprintf("regression tests: %d succeed, %d fail", numSucceed, numFail)))

		if numError > 0 {
			output.Write([]byte(" [with errors]"))
		}
		output.Write([]byte("\n"))
	}()

	onSelect := func(ent database.Entry) error {
		// database entry should also satisfy the Regressor interface
		reg, ok := ent.(Regressor)
		if !ok {
			return curated.Errorf("regression: database entry does not satisfy the Regressor interface")
		}

		// run regress() function with message. message does not have a
		// trailing newline
		msg := fmt.Sprintf("running: %s", reg)
		ok, err := reg.regress(false, output, msg)

		// once regress() has completed we clear the line ready for the
		// completion message
		output.Write([]byte(ansi.ClearLine))

		// print completion message depending on result of regress()
		if err != nil {
			numError++
			output.Write([]byte(fmt.Sprintf("\r  error: %s\n", reg)))

			if verbose {
				output.Write([]byte(fmt.Sprintf("%s\n", err)))
			}

			if failOnError {
				return err
			}
		} else if !ok {
			numFail++
			output.Write([]byte(fmt.Sprintf("\rfailure: %s\n", reg)))
		} else {
			numSucceed++
			output.Write([]byte(fmt.Sprintf("\rsucceed: %s\n", reg)))
		}

		return nil
	}

	_, err = db.SelectKeys(onSelect, keysV...)
	if err != nil {
		// an empty database is not an error for our purposes
		if curated.Is(err, "database: select empty") {
			return nil
		}
		return err
	}

	return nil
}
