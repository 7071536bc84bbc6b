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

package database_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/gopheradvance/database"
	"github.com/jetsetilly/gopheradvance/test"
)

type testEntry struct {
	value string
}

func (ent testEntry) ID() string {
	return "test"
}

func (ent testEntry) String() string {
	return ent.value
}

func (ent *testEntry) Serialise() (database.SerialisedEntry, error) {
	return database.SerialisedEntry{ent.value}, nil
}

func (ent testEntry) CleanUp() error {
	return nil
}

func deserialiseTestEntry(fields []string) (database.Entry, error) {
	return &testEntry{value: fields[0]}, nil
}

func initTestSession(db *database.Session) error {
	return db.RegisterEntryType("test", deserialiseTestEntry)
}

func TestSession(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "db")

	// create database and add some entries
	db, err := database.StartSession(pth, database.ActivityCreating, initTestSession)
	test.ExpectedSuccess(t, err)

	test.ExpectedSuccess(t, db.Add(&testEntry{value: "foo"}))
	test.ExpectedSuccess(t, db.Add(&testEntry{value: "bar"}))
	test.Equate(t, db.NumEntries(), 2)

	test.ExpectedSuccess(t, db.EndSession(true))

	// read the entries back in a fresh session
	db, err = database.StartSession(pth, database.ActivityReading, initTestSession)
	test.ExpectedSuccess(t, err)
	test.Equate(t, db.NumEntries(), 2)

	ent, err := db.Get(0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, ent.String(), "foo")

	s := &strings.Builder{}
	test.ExpectedSuccess(t, db.List(s))
	test.Equate(t, strings.Contains(s.String(), "000 foo"), true)
	test.Equate(t, strings.Contains(s.String(), "001 bar"), true)
	test.Equate(t, strings.Contains(s.String(), "Total: 2"), true)

	// read-only sessions cannot commit
	test.ExpectedFailure(t, db.EndSession(true))
	test.ExpectedSuccess(t, db.EndSession(false))
}

func TestSessionDelete(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "db")

	db, err := database.StartSession(pth, database.ActivityCreating, initTestSession)
	test.ExpectedSuccess(t, err)

	test.ExpectedSuccess(t, db.Add(&testEntry{value: "foo"}))
	test.ExpectedSuccess(t, db.Add(&testEntry{value: "bar"}))
	test.ExpectedSuccess(t, db.Delete(0))
	test.Equate(t, db.NumEntries(), 1)

	// key 0 no longer exists
	test.ExpectedFailure(t, db.Delete(0))

	test.ExpectedSuccess(t, db.EndSession(true))

	// the remaining entry keeps its key across sessions
	db, err = database.StartSession(pth, database.ActivityReading, initTestSession)
	test.ExpectedSuccess(t, err)

	ent, err := db.Get(1)
	test.ExpectedSuccess(t, err)
	test.Equate(t, ent.String(), "bar")

	test.ExpectedSuccess(t, db.EndSession(false))
}

func TestSelectKeys(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "db")

	db, err := database.StartSession(pth, database.ActivityCreating, initTestSession)
	test.ExpectedSuccess(t, err)
	defer db.EndSession(false)

	test.ExpectedSuccess(t, db.Add(&testEntry{value: "foo"}))
	test.ExpectedSuccess(t, db.Add(&testEntry{value: "bar"}))
	test.ExpectedSuccess(t, db.Add(&testEntry{value: "baz"}))

	var visited []string
	onSelect := func(ent database.Entry) error {
		visited = append(visited, ent.String())
		return nil
	}

	_, err = db.SelectKeys(onSelect, 0, 2)
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(visited), 2)
	test.Equate(t, visited[0], "foo")
	test.Equate(t, visited[1], "baz")

	// an empty keys list matches everything
	visited = visited[:0]
	_, err = db.SelectKeys(onSelect)
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(visited), 3)

	// unknown key
	_, err = db.SelectKeys(nil, 99)
	test.ExpectedFailure(t, err)
}
