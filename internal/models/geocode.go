package models

// GeocodeResult is the resolved place breakdown for a coordinate pair.
// Field names follow the dashboard's locale.
type GeocodeResult struct {
	Colonia           string   `json:"colonia"`
	CodigoPostal      string   `json:"codigo_postal"`
	Ciudad            string   `json:"ciudad"`
	Estado            string   `json:"estado"`
	Municipio         string   `json:"municipio"`
	DireccionCompleta string   `json:"direccion_completa"`
	Colonias          []string `json:"colonias"`
}
