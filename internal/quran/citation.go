// Package quran holds the surah reference table and the helpers that turn
// backend citations into display labels.
package quran

import (
	"errors"
	"fmt"
	"strconv"
)

// Citation references a contiguous range of ayahs inside one surah together
// with their translated text. JSON names follow the RAG backend payload.
type Citation struct {
	Surah     int    `json:"surah_no"`
	FirstAyah int    `json:"first_ayah_no_surah"`
	LastAyah  int    `json:"last_ayah_no_surah"`
	Text      string `json:"ayah_en"`
}

var (
	ErrUnknownSurah = errors.New("unknown surah")
	ErrInvalidAyah  = errors.New("invalid ayah range")
)

// Validate reports citations that break the surah or ayah range invariants.
func (c Citation) Validate() error {
	if _, ok := SurahName(c.Surah); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSurah, c.Surah)
	}
	if c.FirstAyah < 1 || c.LastAyah < c.FirstAyah {
		return fmt.Errorf("%w: %d-%d", ErrInvalidAyah, c.FirstAyah, c.LastAyah)
	}
	return nil
}

// Label is the resolved, human-readable form of a Citation.
type Label struct {
	Surah   int
	Name    string
	Range   string
	IsRange bool

	// Known is false when the surah number has no entry in the table; Name is
	// empty in that case.
	Known bool
}

// Format resolves a citation into its display label. It never fails: an
// unknown surah yields a label with Known unset.
func Format(c Citation) Label {
	name, ok := SurahName(c.Surah)
	label := Label{
		Surah: c.Surah,
		Name:  name,
		Known: ok,
	}
	if c.FirstAyah == c.LastAyah {
		label.Range = strconv.Itoa(c.FirstAyah)
	} else {
		label.Range = fmt.Sprintf("%d-%d", c.FirstAyah, c.LastAyah)
		label.IsRange = true
	}
	return label
}

// String renders "Q.S {name} {range}". The name is empty for unknown surahs.
func (l Label) String() string {
	return fmt.Sprintf("Q.S %s %s", l.Name, l.Range)
}

// Placeholder renders the label, substituting placeholder for a missing name.
func (l Label) Placeholder(placeholder string) string {
	if l.Known {
		return l.String()
	}
	return fmt.Sprintf("Q.S %s %s", placeholder, l.Range)
}
