package catalog

// Good defines one tradeable good.
type Good struct {
	ID        string
	Name      string
	BasePrice float64
	MinLevel  int
	Risky     bool // risky goods carry a heat-adjacent premium for bold agents
}

var goods = map[string]Good{
	"bootleg_liquor":     {ID: "bootleg_liquor", Name: "Bootleg Liquor", BasePrice: 40, MinLevel: 1},
	"counterfeit_bills":  {ID: "counterfeit_bills", Name: "Counterfeit Bills", BasePrice: 120, MinLevel: 2, Risky: true},
	"stolen_electronics": {ID: "stolen_electronics", Name: "Stolen Electronics", BasePrice: 220, MinLevel: 3},
	"designer_chems":     {ID: "designer_chems", Name: "Designer Chems", BasePrice: 350, MinLevel: 4, Risky: true},
	"unlicensed_arms":    {ID: "unlicensed_arms", Name: "Unlicensed Arms", BasePrice: 500, MinLevel: 5, Risky: true},
	"hot_jewelry":        {ID: "hot_jewelry", Name: "Hot Jewelry", BasePrice: 800, MinLevel: 6, Risky: true},
}

// GoodByID resolves a good definition.
func GoodByID(id string) (Good, bool) {
	g, ok := goods[id]
	return g, ok
}

// GoodIDs returns all good ids ordered by base price ascending.
func GoodIDs() []string {
	return []string{
		"bootleg_liquor", "counterfeit_bills", "stolen_electronics",
		"designer_chems", "unlicensed_arms", "hot_jewelry",
	}
}
