package tools

import (
	"fmt"
	"strings"
)

// NormalizeWhatsAppTo normaliza um telefone para envio por WhatsApp
// (apenas dígitos, em formato internacional, sem '+').
//
// Heurística (Brasil):
// - remove tudo que não é dígito
// - se vier com 10/11 dígitos, assume BR e prefixa 55
// - se já vier com DDI (>= 12 dígitos), mantém
func NormalizeWhatsAppTo(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("telefone vazio")
	}

	phone := strings.TrimLeft(OnlyDigits(raw), "0")

	if len(phone) == 10 || len(phone) == 11 {
		phone = "55" + phone
	}

	if len(phone) < 12 || len(phone) > 13 {
		return "", fmt.Errorf("telefone com tamanho inválido: %d", len(phone))
	}
	return phone, nil
}

// ValidateTelefone aceita telefones BR com DDD (10 ou 11 dígitos), com ou sem máscara/DDI.
func ValidateTelefone(raw string) bool {
	_, err := NormalizeWhatsAppTo(raw)
	return err == nil
}
