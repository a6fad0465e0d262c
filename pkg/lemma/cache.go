package lemma

// Cache holds at most one lemma table. Loading a language evicts the table of
// the previous one.
//
// Cache is not safe for concurrent use: a load for one language racing a
// lookup in another would read a half-swapped slot. Dispatcher guards it with
// a mutex spanning load and lookup.
type Cache struct {
	resident string
	table    Table
}

// Resident returns the language whose table is loaded, or "".
func (c *Cache) Resident() string { return c.resident }

// Lemmatize reloads the slot through loader when lang is not resident and
// then looks word up. On a load error the slot keeps its previous table.
func (c *Cache) Lemmatize(loader TableLoader, word, lang string) (string, error) {
	if c.resident != lang || c.table == nil {
		t, err := loader.Load(lang)
		if err != nil {
			return word, err
		}
		c.resident = lang
		c.table = t
	}
	return c.table.Lemmatize(word), nil
}
