package numerology

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type NumerologySuite struct {
	suite.Suite
}

func TestNumerologySuite(t *testing.T) {
	suite.Run(t, new(NumerologySuite))
}

// =============================================================================
// Digit reduction
// =============================================================================

func (s *NumerologySuite) TestReduceToSingleDigit() {
	s.Run("single digits are fixed points", func() {
		for n := 0; n <= 9; n++ {
			s.Equal(n, ReduceToSingleDigit(n))
		}
	})

	s.Run("iterates until one digit", func() {
		s.Equal(1, ReduceToSingleDigit(1990))
		s.Equal(2, ReduceToSingleDigit(11))
		s.Equal(9, ReduceToSingleDigit(9999))
		s.Equal(6, ReduceToSingleDigit(15))
	})
}

func (s *NumerologySuite) TestReduceToSingleDigitOrMaster() {
	s.Run("master numbers are fixed points", func() {
		s.Equal(11, ReduceToSingleDigitOrMaster(11))
		s.Equal(22, ReduceToSingleDigitOrMaster(22))
		s.Equal(33, ReduceToSingleDigitOrMaster(33))
	})

	s.Run("stops when an intermediate sum is a master number", func() {
		s.Equal(11, ReduceToSingleDigitOrMaster(29))
		s.Equal(11, ReduceToSingleDigitOrMaster(38))
		s.Equal(22, ReduceToSingleDigitOrMaster(499))
	})

	s.Run("keeps reducing non-master sums", func() {
		s.Equal(9, ReduceToSingleDigitOrMaster(9999))
		s.Equal(3, ReduceToSingleDigitOrMaster(12))
		s.Equal(0, ReduceToSingleDigitOrMaster(0))
	})
}

// =============================================================================
// Life path and personal year
// =============================================================================

func (s *NumerologySuite) TestLifePathNumber() {
	s.Run("1990-05-15 is 3", func() {
		s.Equal(3, LifePathNumber(15, 5, 1990))
	})

	s.Run("preserves master sums", func() {
		s.Equal(11, LifePathNumber(1, 8, 2000))
		s.Equal(22, LifePathNumber(9, 9, 1993))
	})
}

func (s *NumerologySuite) TestPersonalYearNumber() {
	s.Run("day 29 month 11 in 2024 is 3", func() {
		s.Equal(3, PersonalYearNumber(29, 11, 2024))
	})

	s.Run("never returns a master number", func() {
		// 1 + 8 + 2 = 11 -> 2
		s.Equal(2, PersonalYearNumber(1, 8, 2000))
		// 9 + 9 + 4 = 22 -> 4
		s.Equal(4, PersonalYearNumber(9, 9, 1993))
	})
}

// =============================================================================
// Destiny
// =============================================================================

func (s *NumerologySuite) TestDestinyNumber() {
	s.Run("Ana is 7", func() {
		s.Equal(7, DestinyNumber("Ana"))
	})

	s.Run("case invariant", func() {
		want := DestinyNumber("maria silva")
		s.Equal(6, want)
		s.Equal(want, DestinyNumber("Maria Silva"))
		s.Equal(want, DestinyNumber("MARIA SILVA"))
	})

	s.Run("diacritic invariant", func() {
		s.Equal(DestinyNumber("Jose"), DestinyNumber("José"))
		s.Equal(DestinyNumber("Jose"), DestinyNumber("JOSÉ"))
		s.Equal(DestinyNumber("Jose"), DestinyNumber("Jose\u0301"))
		s.Equal(DestinyNumber("Conceicao Nunes"), DestinyNumber("Conceição Nuñes"))
	})

	s.Run("digits and punctuation contribute nothing", func() {
		s.Equal(DestinyNumber("Ana"), DestinyNumber("A-n.a 42!"))
	})

	s.Run("keeps master numbers", func() {
		// i+i+i+b = 9+9+9+2 = 29 -> 11
		s.Equal(11, DestinyNumber("Iii B"))
	})

	s.Run("no latin letters scores zero", func() {
		s.Equal(0, DestinyNumber(""))
		s.Equal(0, DestinyNumber("李小龍"))
	})
}

func (s *NumerologySuite) TestFoldName() {
	s.Equal("joao da conceicao", FoldName("João da Conceição"))
	s.Equal("ana maria ", FoldName("ANA MARIA 3º"))
}

// =============================================================================
// Compute
// =============================================================================

func (s *NumerologySuite) TestCompute() {
	s.Run("all three numbers", func() {
		bd, err := ParseBirthDate("1990-05-15")
		s.Require().NoError(err)

		res, err := Compute("Maria Silva", bd, 2024)
		s.Require().NoError(err)
		s.Equal(Result{LifePathNumber: 3, DestinyNumber: 6, PersonalYearNumber: 1}, res)
	})

	s.Run("rejects empty name", func() {
		_, err := Compute("   ", BirthDate{Year: 1990, Month: 5, Day: 15}, 2024)
		s.True(IsInvalidInput(err))
	})

	s.Run("rejects names without latin letters", func() {
		_, err := Compute("123 456", BirthDate{Year: 1990, Month: 5, Day: 15}, 2024)
		s.True(IsInvalidInput(err))
	})

	s.Run("rejects unvalidated impossible date", func() {
		_, err := Compute("Ana", BirthDate{Year: 1990, Month: 4, Day: 31}, 2024)
		s.True(IsInvalidInput(err))
	})

	s.Run("rejects missing birth date", func() {
		_, err := Compute("Ana", BirthDate{}, 2024)
		s.True(IsInvalidInput(err))
	})

	s.Run("rejects non-positive evaluation year", func() {
		_, err := Compute("Ana", BirthDate{Year: 1990, Month: 5, Day: 15}, 0)
		s.True(IsInvalidInput(err))
	})
}

func TestParseBirthDate(t *testing.T) {
	valid := map[string]BirthDate{
		"1990-05-15":   {Year: 1990, Month: 5, Day: 15},
		"2024-02-29":   {Year: 2024, Month: 2, Day: 29},
		" 2000-12-31 ": {Year: 2000, Month: 12, Day: 31},
	}
	for in, want := range valid {
		got, err := ParseBirthDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	invalid := []string{"", "2023-02-29", "1990-04-31", "1990-13-01", "1990-00-10", "1990-4-15", "15/05/1990", "abcd-ef-gh", "0000-01-01"}
	for _, in := range invalid {
		_, err := ParseBirthDate(in)
		assert.True(t, IsInvalidInput(err), in)
	}
}

func TestReduceNegativeInput(t *testing.T) {
	assert.Equal(t, 2, ReduceToSingleDigit(-29))
	assert.Equal(t, 11, ReduceToSingleDigitOrMaster(-29))
	assert.Equal(t, 8, ReduceToSingleDigit(math.MinInt))
	assert.Equal(t, 8, ReduceToSingleDigitOrMaster(math.MinInt))
	assert.Equal(t, ReduceToSingleDigit(math.MaxInt), ReduceToSingleDigitOrMaster(math.MaxInt))
}

func TestHasLetters(t *testing.T) {
	assert.True(t, HasLetters("Maria"))
	assert.True(t, HasLetters("Ítalo"))
	assert.False(t, HasLetters(""))
	assert.False(t, HasLetters("   "))
	assert.False(t, HasLetters("李小龍"))
	assert.False(t, HasLetters("1234 !?"))
}

func TestBirthDateFormatting(t *testing.T) {
	bd := BirthDate{Year: 1990, Month: 5, Day: 7}
	assert.Equal(t, "1990-05-07", bd.String())
	assert.Equal(t, "07/05/1990", bd.Display())
}

// Every calendar date from 1900 through 2100 keeps the number invariants.
func TestNumberRangesOverCalendar(t *testing.T) {
	allowed := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true, 9: true, 11: true, 22: true, 33: true}

	start := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		lp := LifePathNumber(d.Day(), int(d.Month()), d.Year())
		if !allowed[lp] {
			t.Fatalf("life path %d out of range for %s", lp, d.Format("2006-01-02"))
		}
		for _, year := range []int{1999, 2024, 2025, 2033} {
			py := PersonalYearNumber(d.Day(), int(d.Month()), year)
			if py < 1 || py > 9 {
				t.Fatalf("personal year %d out of range for %s in %d", py, d.Format("2006-01-02"), year)
			}
		}
	}
}
