// Package packunit analyse les option_values d'une variante pour savoir si
// elle représente une unité de base ou un multi-pack, et convertit les
// quantités en unités de base.
package packunit

import (
	"strconv"
	"strings"

	"zyvo_back_end/internal/models"
)

// PackInfo décrit le conditionnement d'une variante.
// Une variante "12-pack" a Multiplier=12; une unité de base a Multiplier=1.
type PackInfo struct {
	IsBaseUnit bool `json:"is_base_unit"`
	Multiplier int  `json:"pack_unit_multiplier"`
}

// Analyze inspecte les option_values d'une variante. Règle de détection:
// option_type strictement égal à "pack" (insensible à la casse). Toute
// entrée absente, vide ou non numérique dégrade en unité de base sans
// jamais paniquer.
func Analyze(optionValues []models.OptionValue) PackInfo {
	base := PackInfo{IsBaseUnit: true, Multiplier: 1}

	for _, ov := range optionValues {
		if !strings.EqualFold(strings.TrimSpace(ov.OptionType), "pack") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(ov.OptionValue))
		if err != nil || n <= 1 {
			return base
		}
		return PackInfo{IsBaseUnit: false, Multiplier: n}
	}

	return base
}

// ComputedStock exprime un stock physique en unités de base.
// Ex: 10 cartons de 12 → 120 unités.
func ComputedStock(stockQuantity, multiplier int) int {
	if multiplier < 1 {
		multiplier = 1
	}
	return stockQuantity * multiplier
}

// BaseUnitsNeeded traduit une quantité commandée d'une variante en unités
// de base à décrémenter ("commander 1 douze-pack" → retirer 12 unités).
func BaseUnitsNeeded(orderedQuantity int, info PackInfo) int {
	return orderedQuantity * info.Multiplier
}
