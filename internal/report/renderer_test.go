package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmonumero/internal/interpretation"
	"cosmonumero/internal/numerology"
)

func sampleInput(t *testing.T) Input {
	t.Helper()
	bd, err := numerology.NewBirthDate(1990, 5, 15)
	require.NoError(t, err)
	result := numerology.Result{LifePathNumber: 3, DestinyNumber: 6, PersonalYearNumber: 1}
	return Input{
		FullName:    "Maria Conceição Silva",
		BirthDate:   bd,
		Result:      result,
		Narrative:   interpretation.Fallback(result),
		GeneratedAt: time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	pdf, err := NewRenderer("Análise Numerológica Cósmica", "Numerologia Cósmica").Render(sampleInput(t))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.True(t, bytes.Contains(pdf, []byte("%%EOF")))
	assert.Greater(t, len(pdf), 2000)
}

func TestRenderLongNarrativeSpillsOntoMorePages(t *testing.T) {
	in := sampleInput(t)
	long := strings.Repeat("Uma frase longa sobre o seu caminho. ", 120)
	in.Narrative.CurrentChallenges = long
	in.Narrative.DailyRitual = long

	short, err := NewRenderer("", "").Render(sampleInput(t))
	require.NoError(t, err)
	full, err := NewRenderer("", "").Render(in)
	require.NoError(t, err)
	assert.Greater(t, len(full), len(short))
}

func TestRenderAccentedRitual(t *testing.T) {
	in := sampleInput(t)
	in.Narrative.DailyRitual = "Ao acordar, respire fundo — três vezes — e repita a afirmação do dia: “sou luz”. " +
		strings.Repeat("Pratique a gratidão diária com atenção plena. ", 12)

	assert.NotPanics(t, func() {
		pdf, err := NewRenderer("", "").Render(in)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	})
}

func TestWidthRunes(t *testing.T) {
	translated := string([]byte{'d', 'i', 0xE1, 'r', 'i', 'o', 0x97})
	got := []rune(widthRunes(translated))

	require.Len(t, got, 7)
	assert.Equal(t, rune(0xE1), got[2])
	assert.Equal(t, rune(0x97), got[6])
}

func TestDownloadFilename(t *testing.T) {
	assert.Equal(t, "Analise_Numerologica_Maria_Concei__o_Silva.pdf", DownloadFilename("Maria Conceição Silva"))
	assert.Equal(t, "Analise_Numerologica_Ana.pdf", DownloadFilename("Ana"))
}
