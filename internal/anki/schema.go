package anki

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// collectionSchema is Anki's schema-11 collection layout. The revlog and
// graves tables stay empty in a generated package but importers expect them
// to exist.
const collectionSchema = `
CREATE TABLE col (
  id integer PRIMARY KEY,
  crt integer NOT NULL,
  mod integer NOT NULL,
  scm integer NOT NULL,
  ver integer NOT NULL,
  dty integer NOT NULL,
  usn integer NOT NULL,
  ls integer NOT NULL,
  conf text NOT NULL,
  models text NOT NULL,
  decks text NOT NULL,
  dconf text NOT NULL,
  tags text NOT NULL
);
CREATE TABLE notes (
  id integer PRIMARY KEY,
  guid text NOT NULL,
  mid integer NOT NULL,
  mod integer NOT NULL,
  usn integer NOT NULL,
  tags text NOT NULL,
  flds text NOT NULL,
  sfld integer NOT NULL,
  csum integer NOT NULL,
  flags integer NOT NULL,
  data text NOT NULL
);
CREATE TABLE cards (
  id integer PRIMARY KEY,
  nid integer NOT NULL,
  did integer NOT NULL,
  ord integer NOT NULL,
  mod integer NOT NULL,
  usn integer NOT NULL,
  type integer NOT NULL,
  queue integer NOT NULL,
  due integer NOT NULL,
  ivl integer NOT NULL,
  factor integer NOT NULL,
  reps integer NOT NULL,
  lapses integer NOT NULL,
  left integer NOT NULL,
  odue integer NOT NULL,
  odid integer NOT NULL,
  flags integer NOT NULL,
  data text NOT NULL
);
CREATE TABLE revlog (
  id integer PRIMARY KEY,
  cid integer NOT NULL,
  usn integer NOT NULL,
  ease integer NOT NULL,
  ivl integer NOT NULL,
  lastIvl integer NOT NULL,
  factor integer NOT NULL,
  time integer NOT NULL,
  type integer NOT NULL
);
CREATE TABLE graves (
  usn integer NOT NULL,
  oid integer NOT NULL,
  type integer NOT NULL
);
CREATE INDEX ix_notes_usn ON notes (usn);
CREATE INDEX ix_cards_usn ON cards (usn);
CREATE INDEX ix_revlog_usn ON revlog (usn);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
CREATE INDEX ix_revlog_cid ON revlog (cid);
CREATE INDEX ix_notes_csum ON notes (csum);
`

// ankiFieldSep joins note field values in the flds column.
const ankiFieldSep = "\x1f"

// Anki schema version written to col.ver.
const schemaVersion = 11

type fieldJSON struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Sticky bool     `json:"sticky"`
	RTL    bool     `json:"rtl"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
}

type templateJSON struct {
	Name  string  `json:"name"`
	Ord   int     `json:"ord"`
	Qfmt  string  `json:"qfmt"`
	Afmt  string  `json:"afmt"`
	Bqfmt string  `json:"bqfmt"`
	Bafmt string  `json:"bafmt"`
	Did   *int64  `json:"did"`
	Bfont string  `json:"bfont"`
	Bsize int     `json:"bsize"`
}

type modelJSON struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	Mod       int64           `json:"mod"`
	Usn       int             `json:"usn"`
	Sortf     int             `json:"sortf"`
	Did       int64           `json:"did"`
	Tmpls     []templateJSON  `json:"tmpls"`
	Flds      []fieldJSON     `json:"flds"`
	CSS       string          `json:"css"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	Req       json.RawMessage `json:"req"`
	Tags      []string        `json:"tags"`
	Vers      []string        `json:"vers"`
}

type deckJSON struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Desc      string  `json:"desc"`
	Mod       int64   `json:"mod"`
	Usn       int     `json:"usn"`
	Collapsed bool    `json:"collapsed"`
	Dyn       int     `json:"dyn"`
	Conf      int     `json:"conf"`
	ExtendNew int     `json:"extendNew"`
	ExtendRev int     `json:"extendRev"`
	NewToday  [2]int  `json:"newToday"`
	RevToday  [2]int  `json:"revToday"`
	LrnToday  [2]int  `json:"lrnToday"`
	TimeToday [2]int  `json:"timeToday"`
}

const latexPre = "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n"
const latexPost = "\\end{document}"

// modelReq is the card-generation rule: a card exists only when the
// Question field (ord 1) is non-empty.
var modelReq = json.RawMessage(`[[0, "all", [1]]]`)

// modelsJSON renders the col.models column: one model keyed by id.
func modelsJSON(m Model, mod int64, defaultDeckID int64) (string, error) {
	flds := make([]fieldJSON, len(m.Fields))
	for i, name := range m.Fields {
		flds[i] = fieldJSON{Name: name, Ord: i, Font: "Arial", Size: 20, Media: []string{}}
	}

	mj := modelJSON{
		ID:    strconv.FormatInt(m.ID, 10),
		Name:  m.Name,
		Mod:   mod,
		Usn:   -1,
		Did:   defaultDeckID,
		Flds:  flds,
		CSS:   m.CSS,
		Tmpls: []templateJSON{{
			Name:  "Card 1",
			Qfmt:  m.QuestionFormat,
			Afmt:  m.AnswerFormat,
			Bfont: "Arial",
			Bsize: 12,
		}},
		LatexPre:  latexPre,
		LatexPost: latexPost,
		Req:       modelReq,
		Tags:      []string{},
		Vers:      []string{},
	}

	out, err := json.Marshal(map[string]modelJSON{mj.ID: mj})
	if err != nil {
		return "", fmt.Errorf("marshal models: %w", err)
	}
	return string(out), nil
}

// decksJSON renders the col.decks column: the mandatory default deck plus
// each generated topic deck.
func decksJSON(decks []Deck, mod int64) (string, error) {
	all := map[string]deckJSON{
		"1": {ID: 1, Name: "Default", Mod: mod, Conf: 1, ExtendNew: 10, ExtendRev: 50},
	}
	for _, d := range decks {
		all[strconv.FormatInt(d.ID, 10)] = deckJSON{
			ID:        d.ID,
			Name:      d.Name,
			Mod:       mod,
			Usn:       -1,
			Conf:      1,
			ExtendNew: 10,
			ExtendRev: 50,
		}
	}
	out, err := json.Marshal(all)
	if err != nil {
		return "", fmt.Errorf("marshal decks: %w", err)
	}
	return string(out), nil
}

// confJSON renders col.conf with the generated model as the current one.
func confJSON(modelID int64) string {
	return fmt.Sprintf(`{"activeDecks":[1],"addToCur":true,"collapseTime":1200,"curDeck":1,"curModel":"%d","dueCounts":true,"estTimes":true,"newBury":true,"newSpread":0,"nextPos":1,"sortBackwards":false,"sortType":"noteFld","timeLim":0}`, modelID)
}

// dconfJSON is the default deck-options group; every generated deck points
// at it via conf=1.
const dconfJSON = `{"1":{"autoplay":true,"dyn":0,"id":1,"lapse":{"delays":[10],"leechAction":0,"leechFails":8,"minInt":1,"mult":0},"maxTaken":60,"mod":0,"name":"Default","new":{"bury":true,"delays":[1,10],"initialFactor":2500,"ints":[1,4,7],"order":1,"perDay":20,"separate":true},"replayq":true,"rev":{"bury":true,"ease4":1.3,"fuzz":0.05,"ivlFct":1,"maxIvl":36500,"minSpace":1,"perDay":100},"timer":0,"usn":0}}`
