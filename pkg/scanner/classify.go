package scanner

import (
	"fmt"
	"time"
)

// DateLayout is the expected due date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Classifier turns matched markers into classified Items.
type Classifier struct {
	// Location is the fixed offset dates are interpreted in.
	Location *time.Location

	// Now is the reference instant "today" is derived from.
	Now time.Time
}

// NewClassifier creates a Classifier. A nil location means UTC.
func NewClassifier(loc *time.Location, now time.Time) *Classifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Classifier{Location: loc, Now: now}
}

// Today returns midnight of the reference day in the classifier's offset.
func (c *Classifier) Today() time.Time {
	return StartOfDay(c.Now, c.Location)
}

// Classify builds the Item for a marker found at file:lineNum.
func (c *Classifier) Classify(file string, lineNum int, m Match) Item {
	item := Item{
		File:    file,
		LineNum: lineNum,
	}

	date, err := time.ParseInLocation(DateLayout, m.Date, c.Location)
	if err != nil {
		item.State = StateMalformed
		item.Description = fmt.Sprintf("%s is not a valid date.", m.Date)
		return item
	}

	item.Date = &date
	item.Description = m.Description
	if date.Before(c.Today()) {
		item.State = StateOverdue
	} else {
		item.State = StateValid
	}
	return item
}

// DaysUntil returns the number of calendar days from the reference day to
// the item's due date. Negative values mean the item is overdue.
func (c *Classifier) DaysUntil(date time.Time) int {
	return DaysBetween(c.Today(), StartOfDay(date, c.Location))
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysBetween returns the whole days from a to b. Both must be midnights in
// the same fixed offset.
func DaysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / (24 * 60 * 60))
}
