package assets

import _ "embed"

// ModelsData holds the raw JSON catalog of generation models per provider.
//
//go:embed models.json
var ModelsData []byte
