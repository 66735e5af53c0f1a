package forecast

import "fmt"

// Code is a Zambretti forecast, an index into the phrase table. Codes run
// from 0 (settled fine) to 25 (stormy, much rain).
type Code int

// MaxCode is the highest forecast code.
const MaxCode Code = 25

var phrases = [MaxCode + 1]string{
	"Settled fine",
	"Fine weather",
	"Becoming fine",
	"Fine, becoming less settled",
	"Fine, possible showers",
	"Fairly fine, improving",
	"Fairly fine, possible showers early",
	"Fairly fine, showery later",
	"Showery early, improving",
	"Changeable, mending",
	"Fairly fine, showers likely",
	"Rather unsettled clearing later",
	"Unsettled, probably improving",
	"Showery, bright intervals",
	"Showery, becoming less settled",
	"Changeable, some rain",
	"Unsettled, short fine intervals",
	"Unsettled, rain later",
	"Unsettled, some rain",
	"Mostly very unsettled",
	"Occasional rain, worsening",
	"Rain at times, very unsettled",
	"Rain at frequent intervals",
	"Rain, very unsettled",
	"Stormy, may improve",
	"Stormy, much rain",
}

func (c Code) Valid() bool {
	return c >= 0 && c <= MaxCode
}

// Phrase returns the forecast phrase, or "" for an invalid code.
func (c Code) Phrase() string {
	if !c.Valid() {
		return ""
	}
	return phrases[c]
}

// Exceptional reports whether c is one of the boundary codes 0 and 21.
func (c Code) Exceptional() bool {
	return c == 0 || c == 21
}

// Text is the phrase with the "Exceptional Weather, " prefix where it applies.
func (c Code) Text() string {
	if c.Exceptional() {
		return exceptionalPrefix + c.Phrase()
	}
	return c.Phrase()
}

// Letter is the letter shown in the window of a Zambretti dial.
func (c Code) Letter() string {
	if !c.Valid() {
		return "?"
	}
	return string(rune('A' + c))
}

func (c Code) String() string {
	return fmt.Sprintf("%s (%d)", c.Phrase(), int(c))
}

// WeatherCondition groups forecast codes into broad categories.
type WeatherCondition string

const (
	ConditionSettled    WeatherCondition = "settled"
	ConditionFair       WeatherCondition = "fair"
	ConditionChangeable WeatherCondition = "changeable"
	ConditionUnsettled  WeatherCondition = "unsettled"
	ConditionRain       WeatherCondition = "rain"
	ConditionStormy     WeatherCondition = "stormy"
)

// Condition returns the broad category for c.
func (c Code) Condition() WeatherCondition {
	switch {
	case c <= 2:
		return ConditionSettled
	case c <= 8:
		return ConditionFair
	case c <= 15:
		return ConditionChangeable
	case c <= 19:
		return ConditionUnsettled
	case c <= 23:
		return ConditionRain
	default:
		return ConditionStormy
	}
}
