package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmonumero/internal/numerology"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompute(t *testing.T) {
	t.Run("text output", func(t *testing.T) {
		out, err := execute(t, "compute", "--name", "Maria Silva", "--birth-date", "1990-05-15", "--year", "2024")
		require.NoError(t, err)
		assert.Contains(t, out, "Maria Silva (15/05/1990), 2024")
		assert.Contains(t, out, "Life path:     3")
		assert.Contains(t, out, "Destiny:       6")
		assert.Contains(t, out, "Personal year: 1")
	})

	t.Run("json output", func(t *testing.T) {
		out, err := execute(t, "compute", "-n", "Maria Silva", "-b", "1990-05-15", "-y", "2024", "--json")
		require.NoError(t, err)

		var got computeOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, numerology.Result{LifePathNumber: 3, DestinyNumber: 6, PersonalYearNumber: 1}, got.Result)
		assert.Equal(t, "1990-05-15", got.BirthDate)
		assert.Nil(t, got.Narrative)
	})

	t.Run("narrative", func(t *testing.T) {
		out, err := execute(t, "compute", "-n", "Maria Silva", "-b", "1990-05-15", "-y", "2024", "--json", "--narrative")
		require.NoError(t, err)

		var got computeOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.NotNil(t, got.Narrative)
		assert.NotEmpty(t, got.Narrative.DailyRitual)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := execute(t, "compute", "--name", "Maria Silva", "--birth-date", "1990-02-30")
		require.Error(t, err)
		assert.True(t, numerology.IsInvalidInput(err))
	})

	t.Run("name without letters", func(t *testing.T) {
		_, err := execute(t, "compute", "--name", "1234", "--birth-date", "1990-05-15")
		require.Error(t, err)
		assert.True(t, numerology.IsInvalidInput(err))
	})

	t.Run("missing flags", func(t *testing.T) {
		_, err := execute(t, "compute", "--name", "Maria Silva")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "birth-date")
	})
}
