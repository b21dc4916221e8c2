package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// translations maps an English message key to its German and Spanish forms.
var translations = map[string]struct{ de, es string }{
	"Pull Request #%d":  {"Pull Request #%d", "Pull Request #%d"},
	"Updated %s":        {"Aktualisiert %s", "Actualizado %s"},
	"Description":       {"Beschreibung", "Descripción"},
	"State":             {"Status", "Estado"},
	"Open":              {"Offen", "Abierto"},
	"Closed":            {"Geschlossen", "Cerrado"},
	"Merged":            {"Zusammengeführt", "Fusionado"},
	"Not Merged":        {"Nicht zusammengeführt", "No fusionado"},
	"Author":            {"Autor", "Autor"},
	"Created %s":        {"Erstellt %s", "Creado %s"},
	"Assigned":          {"Zugewiesen", "Asignado"},
	"Unassigned":        {"Nicht zugewiesen", "Sin asignar"},
	"Milestone":         {"Meilenstein", "Hito"},
	"No Milestone":      {"Kein Meilenstein", "Sin hito"},
	"Labels":            {"Labels", "Etiquetas"},
	"None":              {"Keine", "Ninguna"},
	"Commits":           {"Commits", "Commits"},
	"Files":             {"Dateien", "Archivos"},
	"Merge":             {"Zusammenführen", "Fusionar"},
	"Unable to merge!":  {"Zusammenführen nicht möglich!", "¡No se puede fusionar!"},
	"Comments":          {"Kommentare", "Comentarios"},
	"Add Comment":       {"Kommentar hinzufügen", "Añadir comentario"},
	"Close":             {"Schließen", "Cerrar"},
	"Comment":           {"Kommentieren", "Comentar"},
	"Show in GitHub":    {"In GitHub anzeigen", "Ver en GitHub"},
	"Unable to comment": {"Kommentieren nicht möglich", "No se puede comentar"},
	"Unable to merge":   {"Zusammenführen fehlgeschlagen", "No se pudo fusionar"},
	"Unable to update":  {"Aktualisieren fehlgeschlagen", "No se pudo actualizar"},
	"Gists":             {"Gists", "Gists"},
	"Pull Requests":     {"Pull Requests", "Pull Requests"},
	"Issues":            {"Issues", "Incidencias"},
	"Pinned":            {"Angeheftet", "Fijados"},
}

// supported lists the catalog languages in matcher preference order.
var supported = []language.Tag{language.English, language.German, language.Spanish}

// newCatalog builds the message catalog. English entries map each key to
// itself so that every key resolves through the catalog.
func newCatalog() (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range translations {
		if err := b.SetString(language.English, key, key); err != nil {
			return nil, err
		}
		if err := b.SetString(language.German, key, tr.de); err != nil {
			return nil, err
		}
		if err := b.SetString(language.Spanish, key, tr.es); err != nil {
			return nil, err
		}
	}
	return b, nil
}
