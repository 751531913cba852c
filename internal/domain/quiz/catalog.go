package quiz

import "slices"

// Question id ranges.
const (
	KeyQuestionMinID = 100
	FollowupMinID    = 200
)

// Option maps one answer value to its axis deltas.
type Option struct {
	Value int
	Text  string
	Delta Vector
}

// Question is an immutable catalog entry.
type Question struct {
	ID      int
	Text    string
	Focus   Axis
	Options []Option
}

// IsBase reports whether q feeds the primary personal type.
func (q Question) IsBase() bool { return q.ID < KeyQuestionMinID }

// IsFollowup reports whether q belongs to the follow-up pool.
func (q Question) IsFollowup() bool { return q.ID >= FollowupMinID }

// Option returns the option with the given value.
func (q Question) Option(value int) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// KeyQuestion is a special question compared verbatim between partners.
// It carries no axis deltas.
type KeyQuestion struct {
	ID      int
	Text    string
	Options []KeyOption
}

// KeyOption is one answer of a key question.
type KeyOption struct {
	Value int
	Text  string
}

// Catalog indexes base questions, the follow-up pool and key questions.
// A Catalog is never mutated after construction.
type Catalog struct {
	base []Question
	pool []Question
	keys []KeyQuestion
	byID map[int]Question
}

// NewCatalog builds a catalog. Later duplicates of an id are ignored.
func NewCatalog(base, pool []Question, keys []KeyQuestion) *Catalog {
	c := &Catalog{
		base: slices.Clone(base),
		pool: slices.Clone(pool),
		keys: slices.Clone(keys),
		byID: make(map[int]Question, len(base)+len(pool)),
	}
	for _, q := range append(slices.Clone(base), pool...) {
		if _, dup := c.byID[q.ID]; dup {
			continue
		}
		c.byID[q.ID] = q
	}
	return c
}

// Lookup returns the scored question with the given id.
func (c *Catalog) Lookup(id int) (Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// Base returns a copy of the base questions in catalog order.
func (c *Catalog) Base() []Question { return slices.Clone(c.base) }

// Pool returns a copy of the follow-up pool in catalog order.
func (c *Catalog) Pool() []Question { return slices.Clone(c.pool) }

// Keys returns a copy of the key questions.
func (c *Catalog) Keys() []KeyQuestion { return slices.Clone(c.keys) }

// Key returns the key question with the given id.
func (c *Catalog) Key(id int) (KeyQuestion, bool) {
	for _, k := range c.keys {
		if k.ID == id {
			return k, true
		}
	}
	return KeyQuestion{}, false
}

var defaultCatalog = NewCatalog(baseQuestions, followupPool, keyQuestions) //nolint:gochecknoglobals // static catalog

// Default returns the built-in catalog.
func Default() *Catalog { return defaultCatalog }
