package utils

import "math"

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// SafePercent retorna num/den*100 com duas casas, ou 0 quando o denominador
// não é positivo. Nunca produz NaN ou infinito.
func SafePercent(num, den float64) float64 {
	if den <= 0 {
		return 0
	}

	return RoundWithTwoDecimalPlace(num / den * 100)
}

// SafeDiv retorna num/den com duas casas, ou 0 quando o denominador não é positivo
func SafeDiv(num, den float64) float64 {
	if den <= 0 {
		return 0
	}

	return RoundWithTwoDecimalPlace(num / den)
}
