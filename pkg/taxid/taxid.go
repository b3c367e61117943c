// Package taxid normaliza identificaciones tributarias de proveedores (NIT o cédula).
package taxid

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalid identificación vacía o con caracteres no permitidos.
var ErrInvalid = errors.New("taxid: identificación inválida")

// pesos del módulo 11 de la DIAN, aplicados de derecha a izquierda sobre la base del NIT.
var nitWeights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// VerificationDigit calcula el dígito de verificación de un NIT (solo dígitos, sin DV).
func VerificationDigit(base string) (byte, error) {
	if base == "" || len(base) > len(nitWeights) {
		return 0, fmt.Errorf("%w: base de %d dígitos", ErrInvalid, len(base))
	}
	sum := 0
	for i := 0; i < len(base); i++ {
		c := base[len(base)-1-i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q no es numérico", ErrInvalid, base)
		}
		sum += int(c-'0') * nitWeights[i]
	}
	r := sum % 11
	if r <= 1 {
		return byte('0' + r), nil
	}
	return byte('0' + 11 - r), nil
}

// Normalize devuelve la forma canónica para comparar duplicados:
//   - "900.123.456-8" → "900123456-8" (se valida el dígito de verificación)
//   - "1.020.304.050" → "1020304050" (cédula o NIT sin DV)
//
// Letras solo se admiten en identificaciones extranjeras sin guion ("PA12345"), en mayúsculas.
func Normalize(raw string) (string, error) {
	s := strings.Map(func(r rune) rune {
		if r == '.' || r == ' ' || r == ',' {
			return -1
		}
		return unicode.ToUpper(r)
	}, strings.TrimSpace(raw))
	if s == "" {
		return "", ErrInvalid
	}

	base, dv, hasDV := strings.Cut(s, "-")
	if !hasDV {
		for _, r := range s {
			if !unicode.IsDigit(r) && !unicode.IsLetter(r) {
				return "", fmt.Errorf("%w: %q", ErrInvalid, raw)
			}
		}
		return s, nil
	}

	if len(dv) != 1 {
		return "", fmt.Errorf("%w: dígito de verificación %q", ErrInvalid, dv)
	}
	want, err := VerificationDigit(base)
	if err != nil {
		return "", err
	}
	if dv[0] != want {
		return "", fmt.Errorf("%w: dígito de verificación esperado %c, recibido %s", ErrInvalid, want, dv)
	}
	return base + "-" + dv, nil
}
