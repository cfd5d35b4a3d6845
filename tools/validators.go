package tools

import (
	"regexp"
	"strings"
)

var (
	emailRe       = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	placaAntigaRe = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
	placaMercoRe  = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
	cepRe         = regexp.MustCompile(`^[0-9]{8}$`)
	ufRe          = regexp.MustCompile(`^[A-Z]{2}$`)
)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateSenha exige no mínimo 6 caracteres.
func ValidateSenha(senha string) bool {
	return len(senha) >= 6
}

// NormalizeCPF devolve apenas os dígitos do CPF.
func NormalizeCPF(cpf string) string {
	return OnlyDigits(cpf)
}

// ValidateCPF confere tamanho e dígitos verificadores. Aceita com ou sem máscara.
func ValidateCPF(cpf string) bool {
	cpf = NormalizeCPF(cpf)
	if len(cpf) != 11 {
		return false
	}

	repetido := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			repetido = false
			break
		}
	}
	if repetido {
		return false
	}

	d := make([]int, 11)
	for i, r := range cpf {
		d[i] = int(r - '0')
	}

	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * (n + 1 - i)
		}
		dv := (sum * 10) % 11
		if dv == 10 {
			dv = 0
		}
		if dv != d[n] {
			return false
		}
	}
	return true
}

// NormalizePlaca deixa a placa em maiúsculas e sem separadores ("abc-1234" -> "ABC1234").
func NormalizePlaca(placa string) string {
	placa = strings.ToUpper(strings.TrimSpace(placa))
	return strings.NewReplacer("-", "", " ", "", ".", "").Replace(placa)
}

// ValidatePlaca aceita o padrão antigo (ABC1234) e o Mercosul (ABC1D23).
func ValidatePlaca(placa string) bool {
	placa = NormalizePlaca(placa)
	return placaAntigaRe.MatchString(placa) || placaMercoRe.MatchString(placa)
}

func NormalizeCEP(cep string) string {
	return OnlyDigits(cep)
}

func ValidateCEP(cep string) bool {
	return cepRe.MatchString(NormalizeCEP(cep))
}

func ValidateUF(uf string) bool {
	return ufRe.MatchString(strings.ToUpper(strings.TrimSpace(uf)))
}
