package utils

import (
	"fmt"
	"strconv"
)

// ParseMonth converte o parâmetro de mês (1–12) vindo da query string
func ParseMonth(monthStr string) (int, error) {
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return 0, fmt.Errorf("mês inválido: %q", monthStr)
	}

	if month < 1 || month > 12 {
		return 0, fmt.Errorf("mês fora do intervalo 1-12: %d", month)
	}

	return month, nil
}

// ParseYear converte o parâmetro de ano vindo da query string
func ParseYear(yearStr string) (int, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, fmt.Errorf("ano inválido: %q", yearStr)
	}

	if year < 2000 || year > 2100 {
		return 0, fmt.Errorf("ano fora do intervalo esperado: %d", year)
	}

	return year, nil
}
