package utils

// NormalizarDocumento remove pontuação de CPF/CNPJ, mantendo só dígitos.
func NormalizarDocumento(valor string) string {
	digitos := make([]byte, 0, len(valor))
	for i := 0; i < len(valor); i++ {
		if valor[i] >= '0' && valor[i] <= '9' {
			digitos = append(digitos, valor[i])
		}
	}
	return string(digitos)
}

// TipoDocumento classifica o documento pelo número de dígitos:
// 11 → "cpf", 14 → "cnpj", qualquer outro → "".
func TipoDocumento(valor string) string {
	switch len(NormalizarDocumento(valor)) {
	case 11:
		return "cpf"
	case 14:
		return "cnpj"
	}
	return ""
}
