package filter

import (
	"math"
	"sort"

	"github.com/lumvida/lumvida-backend/internal/models"
)

// CategoryCount is one category's share of a neighborhood's incidents.
type CategoryCount struct {
	Categoria  string  `json:"categoria"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// NeighborhoodStat aggregates the reports resolved to one colonia.
type NeighborhoodStat struct {
	Colonia    string          `json:"colonia"`
	Total      int             `json:"total"`
	Ubicacion  *models.Location `json:"ubicacion,omitempty"`
	Categorias []CategoryCount `json:"categorias"`
}

// NeighborhoodStats groups reports by resolved colonia, falling back to
// the raw address and then the unspecified sentinel, sorted by total
// descending. Category counts within each colonia carry their percentage
// of the colonia total and are sorted by count descending. The first
// report seen for a colonia donates its coordinates for the map panel.
func NeighborhoodStats(records []models.Report) []NeighborhoodStat {
	grouped := make(map[string]*NeighborhoodStat)
	order := make([]string, 0)

	for i := range records {
		r := &records[i]

		colonia := r.Colonia
		if colonia == "" {
			colonia = r.Direccion
		}
		if colonia == "" {
			colonia = models.Unspecified
		}

		stat, ok := grouped[colonia]
		if !ok {
			stat = &NeighborhoodStat{Colonia: colonia, Ubicacion: r.Ubicacion}
			grouped[colonia] = stat
			order = append(order, colonia)
		}
		stat.Total++

		categoria := r.Categoria
		if categoria == "" {
			categoria = "Sin categoría"
		}
		found := false
		for j := range stat.Categorias {
			if stat.Categorias[j].Categoria == categoria {
				stat.Categorias[j].Count++
				found = true
				break
			}
		}
		if !found {
			stat.Categorias = append(stat.Categorias, CategoryCount{Categoria: categoria, Count: 1})
		}
	}

	out := make([]NeighborhoodStat, 0, len(grouped))
	for _, colonia := range order {
		stat := grouped[colonia]
		for j := range stat.Categorias {
			pct := float64(stat.Categorias[j].Count) / float64(stat.Total) * 100
			stat.Categorias[j].Percentage = math.Round(pct*10) / 10
		}
		sort.SliceStable(stat.Categorias, func(i, j int) bool {
			return stat.Categorias[i].Count > stat.Categorias[j].Count
		})
		out = append(out, *stat)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}
