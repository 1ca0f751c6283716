package entities

// Token is a supported token, normalized to a single canonical base58 mint
// string at ingestion so internal code never branches on representation.
type Token struct {
	Name          string `json:"name"`
	Mint          string `json:"mint"`
	Decimals      int    `json:"decimals"`
	UnitsPerToken uint64 `json:"unitsPerToken"`
	Native        bool   `json:"native"`
}
