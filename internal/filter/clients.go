package filter

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmynk/invoicer/internal/models"
)

// SortClients orders clients by name the way the client picker shows them:
// accents and case are secondary, so "Émilie" sorts next to "Emile".
// Ties keep the store's order.
func SortClients(clients []*models.Client) {
	c := collate.New(language.French, collate.IgnoreCase)
	slices.SortStableFunc(clients, func(a, b *models.Client) int {
		return c.CompareString(a.Name, b.Name)
	})
}
