// Package anki builds the note/model/deck object graph Anki expects and
// serializes it into an importable .apkg archive (a zip holding a schema-11
// collection database, numerically named media files and a JSON manifest).
package anki

// Model is the note type shared by every note in a generated package:
// three fields, one template, one card per note.
type Model struct {
	ID             int64
	Name           string
	Fields         []string
	QuestionFormat string
	AnswerFormat   string
	CSS            string
}

// Note carries one flashcard's rendered field values. Fields are ordered
// Topic, Question, Answer to match the model.
type Note struct {
	Fields []string
	Tags   []string
}

// Deck is a named group of notes; IDs are unique within a package.
type Deck struct {
	ID    int64
	Name  string
	Notes []Note
}

// MediaFile is one attachment payload staged for the archive. Files keep
// their build order so archive indices are stable for a given graph.
type MediaFile struct {
	Name string
	Data []byte
}

// Package is the complete object graph handed to Serialize.
type Package struct {
	Model Model
	Decks []Deck
	Media []MediaFile
}

// NoteCount returns the number of notes across all decks.
func (p *Package) NoteCount() int {
	n := 0
	for _, d := range p.Decks {
		n += len(d.Notes)
	}
	return n
}

const modelName = "Chat Flashcard"

// sourceTag marks every generated note so imports are traceable.
const sourceTag = "ankiforge"

const questionFormat = `<div class="card">
  <div class="topic">{{Topic}}</div>
  <div class="question">{{Question}}</div>
</div>`

const answerFormat = `<div class="card">
  <div class="topic">{{Topic}}</div>
  <div class="question">{{Question}}</div>
  <hr>
  <div class="answer">{{Answer}}</div>
</div>`

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: black;
  background-color: white;
  padding: 20px;
}

.topic {
  font-size: 14px;
  color: #10a37f;
  font-weight: bold;
  margin-bottom: 15px;
}

.question {
  font-size: 18px;
  font-weight: bold;
  margin-bottom: 20px;
  line-height: 1.4;
}

.answer {
  font-size: 16px;
  line-height: 1.5;
  text-align: left;
  margin-top: 20px;
  padding: 15px;
  border-left: 4px solid #10a37f;
}

hr {
  border: none;
  height: 1px;
  background-color: #e5e7eb;
  margin: 20px 0;
}`

func newModel(id int64) Model {
	return Model{
		ID:             id,
		Name:           modelName,
		Fields:         []string{"Topic", "Question", "Answer"},
		QuestionFormat: questionFormat,
		AnswerFormat:   answerFormat,
		CSS:            cardCSS,
	}
}
