package export

import (
	"fmt"

	"marsclock/darian"
)

// The Darian month cycle alternates Latin and Sanskrit zodiac names; index
// 0 is unused so the table lines up with month numbers.
var monthNames = [25]string{"",
	"Sagittarius", "Dhanus", "Capricornus", "Makara",
	"Aquarius", "Kumbha", "Pisces", "Mina",
	"Aries", "Mesha", "Taurus", "Rishabha",
	"Gemini", "Mithuna", "Cancer", "Karka",
	"Leo", "Simha", "Virgo", "Kanya",
	"Libra", "Tula", "Scorpius", "Vrishika",
}

var monthAbbrevs = [25]string{"",
	"Sag", "Dha", "Cap", "Mak", "Aqu", "Kum",
	"Pis", "Min", "Ari", "Mes", "Tau", "Ris",
	"Gem", "Mit", "Can", "Kar", "Leo", "Sim",
	"Vir", "Kan", "Lib", "Tul", "Sco", "Vri",
}

// Sols of the week, indexed by Weeksol (Lunae is 0, Solis is 6).
var solNames = [7]string{"Lunae", "Martis", "Mercurii", "Jovis", "Veneris", "Saturni", "Solis"}

var solAbbrevs = [7]string{"Lu", "Ma", "Me", "Jo", "Ve", "Sa", "So"}

// MonthName returns the full name of a Darian month, or "" when m is
// outside 1..24.
func MonthName(m int) string {
	if m < 1 || m > 24 {
		return ""
	}
	return monthNames[m]
}

// MonthAbbrev returns the three-letter abbreviation of a Darian month.
func MonthAbbrev(m int) string {
	if m < 1 || m > 24 {
		return ""
	}
	return monthAbbrevs[m]
}

// SolName returns the full week-sol name for a Weeksol index.
func SolName(w int) string {
	if w < 0 || w > 6 {
		return ""
	}
	return solNames[w]
}

// SolAbbrev returns the two-letter week-sol abbreviation.
func SolAbbrev(w int) string {
	if w < 0 || w > 6 {
		return ""
	}
	return solAbbrevs[w]
}

// FormatSol renders a date like "Sol Martis, 24 Sagittarius 219".
func FormatSol(d darian.Date) string {
	return fmt.Sprintf("Sol %s, %d %s %d",
		SolName(d.Weeksol()), d.Sol(), MonthName(d.Month()), d.Year())
}
