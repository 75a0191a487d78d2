// Package anki reads and writes Anki .apkg decks of theme items.
//
// An exported deck has one note per item. The note type carries the fields
// ID, Theme and Shortcut followed by one field per language code, so a deck
// edited in Anki can be loaded back as a dataset.
package anki

import (
	"archive/zip"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite"
)

// ErrNoCollection is returned when an archive holds no Anki collection.
var ErrNoCollection = errors.New("no Anki collection in archive")

// Collection database names, in lookup order. Newer clients write
// collection.anki21.
var collectionNames = []string{collectionFile, "collection.anki21"}

// Package is the content of an .apkg deck. It is read completely when the
// deck is opened.
type Package struct {
	Path      string
	Decks     []string
	NoteTypes map[int64]NoteType
	Notes     []Note
	Cards     int
}

// NoteType is an Anki note type with its field names in field order.
type NoteType struct {
	Name   string
	Fields []string
}

// Note is one note. Fields are raw values in the order of its type's fields.
type Note struct {
	ID     int64
	GUID   string
	TypeID int64
	Fields []string
}

// OpenPackage reads the deck at path.
func OpenPackage(path string) (*Package, error) {
	db, cleanup, err := openCollection(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer cleanup()

	pkg := &Package{Path: path}
	if err := pkg.readTypesAndDecks(db); err != nil {
		return nil, err
	}
	if err := pkg.readNotes(db); err != nil {
		return nil, err
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&pkg.Cards); err != nil {
		return nil, fmt.Errorf("counting cards: %w", err)
	}
	return pkg, nil
}

// openCollection copies the collection database out of the archive into a
// temporary file and opens it. cleanup closes the database and removes the
// file.
func openCollection(path string) (db *sql.DB, cleanup func(), err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer zr.Close()

	var entry *zip.File
	for _, name := range collectionNames {
		i := slices.IndexFunc(zr.File, func(f *zip.File) bool { return f.Name == name })
		if i >= 0 {
			entry = zr.File[i]
			break
		}
	}
	if entry == nil {
		return nil, nil, ErrNoCollection
	}

	tmp, err := os.CreateTemp("", "gtb-anki-*.db")
	if err != nil {
		return nil, nil, fmt.Errorf("creating temp file: %w", err)
	}
	remove := func() { os.Remove(tmp.Name()) }

	if err := copyEntry(entry, tmp); err != nil {
		tmp.Close()
		remove()
		return nil, nil, fmt.Errorf("extracting %s: %w", entry.Name, err)
	}
	if err := tmp.Close(); err != nil {
		remove()
		return nil, nil, err
	}

	db, err = sql.Open("sqlite", tmp.Name())
	if err != nil {
		remove()
		return nil, nil, fmt.Errorf("opening collection: %w", err)
	}
	return db, func() {
		db.Close()
		remove()
	}, nil
}

func copyEntry(f *zip.File, w io.Writer) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(w, rc)
	return err
}

// readTypesAndDecks reads the note types and deck names stored as JSON in
// the col table.
func (p *Package) readTypesAndDecks(db *sql.DB) error {
	var models, decks string
	if err := db.QueryRow("SELECT models, decks FROM col").Scan(&models, &decks); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}
	if !gjson.Valid(models) || !gjson.Valid(decks) {
		return errors.New("reading collection: malformed note types or decks")
	}

	p.NoteTypes = make(map[int64]NoteType)
	gjson.Parse(models).ForEach(func(_, m gjson.Result) bool {
		fields := m.Get("flds").Array()
		slices.SortFunc(fields, func(a, b gjson.Result) int {
			return int(a.Get("ord").Int() - b.Get("ord").Int())
		})

		nt := NoteType{Name: m.Get("name").String()}
		for _, f := range fields {
			nt.Fields = append(nt.Fields, f.Get("name").String())
		}
		p.NoteTypes[m.Get("id").Int()] = nt
		return true
	})

	gjson.Parse(decks).ForEach(func(_, d gjson.Result) bool {
		p.Decks = append(p.Decks, d.Get("name").String())
		return true
	})
	slices.Sort(p.Decks)
	return nil
}

func (p *Package) readNotes(db *sql.DB) error {
	rows, err := db.Query(`SELECT id, guid, mid, flds FROM notes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n    Note
			flds string
		)
		if err := rows.Scan(&n.ID, &n.GUID, &n.TypeID, &flds); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		n.Fields = strings.Split(flds, fieldSeparator)
		p.Notes = append(p.Notes, n)
	}
	return rows.Err()
}

// FieldNames returns the field names of the note's type.
func (p *Package) FieldNames(n Note) []string {
	return p.NoteTypes[n.TypeID].Fields
}

// FieldValue returns the plain text of a note field by name, matched
// case-insensitively.
func (p *Package) FieldValue(n Note, name string) string {
	i := slices.IndexFunc(p.FieldNames(n), func(f string) bool { return strings.EqualFold(f, name) })
	if i < 0 || i >= len(n.Fields) {
		return ""
	}
	return StripHTML(n.Fields[i])
}

// Summary describes the deck in a few lines.
func (p *Package) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Deck file: %s\n", p.Path)
	fmt.Fprintf(&sb, "  Decks: %s\n", strings.Join(p.Decks, ", "))
	fmt.Fprintf(&sb, "  Note types: %d\n", len(p.NoteTypes))
	fmt.Fprintf(&sb, "  Notes: %d\n", len(p.Notes))
	fmt.Fprintf(&sb, "  Cards: %d\n", p.Cards)
	return sb.String()
}

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	breakRe = regexp.MustCompile(`(?i)<br\s*/?>`)
)

// StripHTML turns a field value into plain text.
func StripHTML(s string) string {
	s = breakRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(html.UnescapeString(s), "\u00a0", " ")
	return strings.TrimSpace(s)
}
