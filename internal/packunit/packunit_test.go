package packunit

import (
	"testing"

	"zyvo_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_NilOptions(t *testing.T) {
	info := Analyze(nil)
	assert.True(t, info.IsBaseUnit)
	assert.Equal(t, 1, info.Multiplier)
}

func TestAnalyze_EmptyOptions(t *testing.T) {
	info := Analyze([]models.OptionValue{})
	assert.True(t, info.IsBaseUnit)
	assert.Equal(t, 1, info.Multiplier)
}

func TestAnalyze_TwelvePack(t *testing.T) {
	info := Analyze([]models.OptionValue{
		{OptionType: "pack", OptionValue: "12"},
	})
	assert.False(t, info.IsBaseUnit)
	assert.Equal(t, 12, info.Multiplier)
}

func TestAnalyze_TableDriven(t *testing.T) {
	tests := []struct {
		name       string
		options    []models.OptionValue
		isBaseUnit bool
		multiplier int
	}{
		{
			name:       "pas d'option pack",
			options:    []models.OptionValue{{OptionType: "color", OptionValue: "rouge"}},
			isBaseUnit: true,
			multiplier: 1,
		},
		{
			name:       "pack de 1 = unité de base",
			options:    []models.OptionValue{{OptionType: "pack", OptionValue: "1"}},
			isBaseUnit: true,
			multiplier: 1,
		},
		{
			name:       "valeur non numérique dégrade en unité de base",
			options:    []models.OptionValue{{OptionType: "pack", OptionValue: "abc"}},
			isBaseUnit: true,
			multiplier: 1,
		},
		{
			name:       "valeur vide",
			options:    []models.OptionValue{{OptionType: "pack", OptionValue: ""}},
			isBaseUnit: true,
			multiplier: 1,
		},
		{
			name:       "valeur négative",
			options:    []models.OptionValue{{OptionType: "pack", OptionValue: "-6"}},
			isBaseUnit: true,
			multiplier: 1,
		},
		{
			name:       "casse insensible",
			options:    []models.OptionValue{{OptionType: "PACK", OptionValue: "6"}},
			isBaseUnit: false,
			multiplier: 6,
		},
		{
			name:       "espaces tolérés",
			options:    []models.OptionValue{{OptionType: " pack ", OptionValue: " 24 "}},
			isBaseUnit: false,
			multiplier: 24,
		},
		{
			// correspondance exacte: "packaging" ne doit pas matcher
			name:       "option_type proche mais différent",
			options:    []models.OptionValue{{OptionType: "packaging", OptionValue: "12"}},
			isBaseUnit: true,
			multiplier: 1,
		},
		{
			name: "pack parmi d'autres options",
			options: []models.OptionValue{
				{OptionType: "color", OptionValue: "bleu"},
				{OptionType: "pack", OptionValue: "6"},
			},
			isBaseUnit: false,
			multiplier: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Analyze(tt.options)
			assert.Equal(t, tt.isBaseUnit, info.IsBaseUnit)
			assert.Equal(t, tt.multiplier, info.Multiplier)
		})
	}
}

func TestComputedStock(t *testing.T) {
	assert.Equal(t, 120, ComputedStock(10, 12))
	assert.Equal(t, 10, ComputedStock(10, 1))
	// multiplicateur invalide dégrade à 1
	assert.Equal(t, 10, ComputedStock(10, 0))
	assert.Equal(t, 10, ComputedStock(10, -3))
	assert.Equal(t, 0, ComputedStock(0, 12))
}

func TestBaseUnitsNeeded(t *testing.T) {
	twelvePack := Analyze([]models.OptionValue{{OptionType: "pack", OptionValue: "12"}})
	assert.Equal(t, 24, BaseUnitsNeeded(2, twelvePack))

	base := Analyze(nil)
	assert.Equal(t, 2, BaseUnitsNeeded(2, base))
}
