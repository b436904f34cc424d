package catalog

// Property defines one purchasable income property.
type Property struct {
	ID       string
	Name     string
	Cost     int64
	Income   int64 // per collection at level 1; scales linearly with level
	MaxLevel int
}

var properties = map[string]Property{
	"corner_store": {ID: "corner_store", Name: "Corner Store", Cost: 2500, Income: 120, MaxLevel: 5},
	"laundromat":   {ID: "laundromat", Name: "Laundromat", Cost: 6000, Income: 260, MaxLevel: 5},
	"pawn_shop":    {ID: "pawn_shop", Name: "Pawn Shop", Cost: 12000, Income: 500, MaxLevel: 5},
	"dive_bar":     {ID: "dive_bar", Name: "Dive Bar", Cost: 25000, Income: 950, MaxLevel: 5},
	"nightclub":    {ID: "nightclub", Name: "Nightclub", Cost: 60000, Income: 2100, MaxLevel: 5},
	"casino":       {ID: "casino", Name: "Casino", Cost: 150000, Income: 5000, MaxLevel: 5},
}

// PropertyByID resolves a property definition.
func PropertyByID(id string) (Property, bool) {
	p, ok := properties[id]
	return p, ok
}

// PropertyIDs returns all property ids ordered by cost ascending.
func PropertyIDs() []string {
	return []string{"corner_store", "laundromat", "pawn_shop", "dive_bar", "nightclub", "casino"}
}
