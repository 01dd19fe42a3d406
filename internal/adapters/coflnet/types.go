package coflnet

// DTOs raw de la API de Coflnet. Solo se usan dentro de este paquete.
// La conversión a domain se hace en mapping.go.

// activeAuction es un BIN activo de GET /{tag}/active/bin.
type activeAuction struct {
	UUID        string `json:"uuid"`
	StartingBid int64  `json:"startingBid"`
	Bin         bool   `json:"bin"`
}

// soldAuction es una subasta terminada de GET /{tag}/sold.
type soldAuction struct {
	UUID             string `json:"uuid"`
	HighestBidAmount int64  `json:"highestBidAmount"`
	Bin              bool   `json:"bin"`
	End              string `json:"end"`
}
