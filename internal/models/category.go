package models

// Categories lista as categorias exibidas no cadastro de produto.
var Categories = []string{"Frutas", "Legumes", "Verduras", "Embutidos", "Outros"}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
