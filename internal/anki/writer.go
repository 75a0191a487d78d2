package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/f3rmion/gtb/internal/theme"
)

const (
	collectionFile = "collection.anki2"
	fieldSeparator = "\x1f"

	// DefaultDeckName names exported decks unless overridden.
	DefaultDeckName = "GTB Themes"
)

// guidSpace namespaces note GUIDs so re-exports update existing notes.
var guidSpace = uuid.MustParse("6f0b6d3e-3c1e-4e8b-9a57-0f4e2d7c9b10")

const schema = `
CREATE TABLE col (
	id integer primary key, crt integer not null, mod integer not null,
	scm integer not null, ver integer not null, dty integer not null,
	usn integer not null, ls integer not null, conf text not null,
	models text not null, decks text not null, dconf text not null,
	tags text not null
);
CREATE TABLE notes (
	id integer primary key, guid text not null, mid integer not null,
	mod integer not null, usn integer not null, tags text not null,
	flds text not null, sfld integer not null, csum integer not null,
	flags integer not null, data text not null
);
CREATE TABLE cards (
	id integer primary key, nid integer not null, did integer not null,
	ord integer not null, mod integer not null, usn integer not null,
	type integer not null, queue integer not null, due integer not null,
	ivl integer not null, factor integer not null, reps integer not null,
	lapses integer not null, left integer not null, odue integer not null,
	odid integer not null, flags integer not null, data text not null
);
CREATE TABLE revlog (
	id integer primary key, cid integer not null, usn integer not null,
	ivl integer not null, lastIvl integer not null, factor integer not null,
	time integer not null, type integer not null
);
CREATE TABLE graves (usn integer not null, oid integer not null, type integer not null);
CREATE INDEX ix_notes_csum ON notes (csum);
CREATE INDEX ix_cards_nid ON cards (nid);
`

const cardCSS = `.card { font-family: arial; font-size: 22px; text-align: center; }
.lang { color: #888; font-size: 14px; }`

// DeckOption configures WriteDeck.
type DeckOption func(*deckOptions)

type deckOptions struct {
	name      string
	languages []theme.Language
	now       func() time.Time
}

// WithDeckName sets the deck name.
func WithDeckName(name string) DeckOption {
	return func(o *deckOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLanguages limits the exported translation fields.
func WithLanguages(langs ...theme.Language) DeckOption {
	return func(o *deckOptions) {
		o.languages = langs
	}
}

// WithClock overrides the time used for ids and modification stamps.
func WithClock(now func() time.Time) DeckOption {
	return func(o *deckOptions) {
		o.now = now
	}
}

// WriteDeck writes items as a new .apkg deck at path, one note and one card
// per item.
func WriteDeck(path string, items []theme.Item, opts ...DeckOption) error {
	o := deckOptions{
		name:      DefaultDeckName,
		languages: theme.Languages,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	tempDir, err := os.MkdirTemp("", "gtb-anki-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if err := writeCollection(filepath.Join(tempDir, collectionFile), items, o); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(tempDir, "media"), []byte("{}"), 0644); err != nil {
		return fmt.Errorf("writing media index: %w", err)
	}

	return zipDir(tempDir, path)
}

func writeCollection(dbPath string, items []theme.Item, o deckOptions) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating collection schema: %w", err)
	}

	now := o.now()
	base := now.UnixMilli()
	modelID := base
	deckID := base + 1

	fields := []string{FieldID, FieldTheme, FieldShortcut}
	for _, l := range o.languages {
		fields = append(fields, string(l))
	}

	models, err := json.Marshal(map[string]any{
		strconv.FormatInt(modelID, 10): noteType(modelID, deckID, fields, o.languages, now),
	})
	if err != nil {
		return fmt.Errorf("marshaling models: %w", err)
	}
	decks, err := json.Marshal(map[string]any{
		"1":                           deckJSON(1, "Default", now),
		strconv.FormatInt(deckID, 10): deckJSON(deckID, o.name, now),
	})
	if err != nil {
		return fmt.Errorf("marshaling decks: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')
	`, now.Unix(), base, base, collectionConf(deckID, modelID), string(models), string(decks), deckConf)
	if err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range items {
		it := &items[i]
		values := noteFields(it, o.languages)
		noteID := base + 10 + int64(i)

		_, err := tx.Exec(`
			INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
			VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')
		`, noteID, noteGUID(it), modelID, now.Unix(), strings.Join(values, fieldSeparator), it.Theme, checksum(it.Theme))
		if err != nil {
			return fmt.Errorf("writing note %d: %w", it.ID, err)
		}

		_, err = tx.Exec(`
			INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
			VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')
		`, noteID, noteID, deckID, now.Unix(), i+1)
		if err != nil {
			return fmt.Errorf("writing card %d: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing notes: %w", err)
	}
	return nil
}

func noteFields(it *theme.Item, langs []theme.Language) []string {
	values := []string{
		strconv.Itoa(it.ID),
		html.EscapeString(it.Theme),
		html.EscapeString(it.Shortcut),
	}
	for _, l := range langs {
		text, _ := it.Translated(l)
		values = append(values, html.EscapeString(text))
	}
	return values
}

func noteGUID(it *theme.Item) string {
	return uuid.NewSHA1(guidSpace, []byte(strconv.Itoa(it.ID)+"\x00"+it.Theme)).String()
}

// checksum is the first 8 hex digits of the SHA-1 of the sort field.
func checksum(sortField string) int64 {
	sum := sha1.Sum([]byte(StripHTML(sortField)))
	csum, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return csum
}

func noteType(id, deckID int64, fields []string, langs []theme.Language, now time.Time) map[string]any {
	flds := make([]map[string]any, len(fields))
	for i, name := range fields {
		flds[i] = map[string]any{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []string{},
		}
	}

	var back strings.Builder
	back.WriteString("{{FrontSide}}<hr id=answer>")
	for _, l := range langs {
		fmt.Fprintf(&back, "{{#%[1]s}}<div><span class=lang>%[1]s</span> {{%[1]s}}</div>{{/%[1]s}}", l)
	}

	return map[string]any{
		"id":        id,
		"name":      "GTB Theme",
		"type":      0,
		"mod":       now.Unix(),
		"usn":       -1,
		"sortf":     1,
		"did":       deckID,
		"flds":      flds,
		"css":       cardCSS,
		"latexPre":  "",
		"latexPost": "",
		"tags":      []string{},
		"vers":      []any{},
		"req":       []any{[]any{0, "any", []int{1}}},
		"tmpls": []map[string]any{{
			"name":  "Theme",
			"ord":   0,
			"qfmt":  "{{" + FieldTheme + "}}",
			"afmt":  back.String(),
			"did":   nil,
			"bqfmt": "",
			"bafmt": "",
		}},
	}
}

func deckJSON(id int64, name string, now time.Time) map[string]any {
	return map[string]any{
		"id":               id,
		"name":             name,
		"desc":             "",
		"mod":              now.Unix(),
		"usn":              -1,
		"conf":             1,
		"dyn":              0,
		"collapsed":        false,
		"extendNew":        10,
		"extendRev":        50,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"browserCollapsed": false,
	}
}

func collectionConf(deckID, modelID int64) string {
	return fmt.Sprintf(`{"nextPos":1,"estTimes":true,"activeDecks":[%d],"sortType":"noteFld","timeLim":0,"sortBackwards":false,"addToCur":true,"curDeck":%d,"newBury":true,"newSpread":0,"dueCounts":true,"curModel":"%d","collapseTime":1200}`,
		deckID, deckID, modelID)
}

const deckConf = `{"1":{"id":1,"name":"Default","mod":0,"usn":0,"maxTaken":60,"autoplay":true,"timer":0,"replayq":true,"dyn":false,` +
	`"new":{"bury":true,"delays":[1,10],"initialFactor":2500,"ints":[1,4,7],"order":1,"perDay":20,"separate":true},` +
	`"rev":{"bury":true,"ease4":1.3,"fuzz":0.05,"ivlFct":1,"maxIvl":36500,"minSpace":1,"perDay":100},` +
	`"lapse":{"delays":[10],"leechAction":0,"leechFails":8,"minInt":1,"mult":0}}}`

// zipDir packs every file of dir into a zip archive at dst.
func zipDir(dir, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("creating zip: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing zip: %w", err)
	}
	return nil
}
