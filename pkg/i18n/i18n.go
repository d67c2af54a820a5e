package i18n

import "strings"

var translations = map[string]string{
	"invalid username or password": "Usuário ou senha inválidos",
	"internal error, try again":    "Erro interno. Tente novamente.",
	"no file selected":             "Nenhum arquivo selecionado.",
	"file format not allowed":      "Formato de arquivo não permitido.",
	"invalid file name":            "Nome de arquivo inválido.",
	"failed to save file":          "Erro ao salvar o arquivo.",
	"file sent successfully":       "Arquivo %s enviado com sucesso!",
	"dispatch sent successfully":   "Disparo enviado com sucesso!",
	"profile updated":              "Informações atualizadas.",
	"file not found":               "Arquivo não encontrado.",
	"internal server error":        "Erro interno do servidor",
	"not found":                    "Página não encontrada",
	"rate limiter error":           "Erro ao limitar requisições",
	"rate limit exceeded":          "Muitas tentativas. Aguarde um momento.",
	"no text":                      "[sem texto]",
	"image":                        "[imagem]",
	"document":                     "[documento]",
	"video":                        "[vídeo]",
}

var prefixTranslations = map[string]string{
	"failed to query user:":    "Erro ao consultar usuário",
	"failed to hash password:": "Erro ao processar senha",
}

// Translate maps an internal English key to the Portuguese string shown to
// users. Unknown keys pass through unchanged.
func Translate(message string) string {
	if translated, ok := translations[message]; ok {
		return translated
	}
	for prefix, translated := range prefixTranslations {
		if strings.HasPrefix(message, prefix) {
			return translated
		}
	}
	return message
}
