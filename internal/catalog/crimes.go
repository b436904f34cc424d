package catalog

// Crime defines one criminal act an agent can attempt.
type Crime struct {
	ID          string
	Name        string
	MinLevel    int
	EnergyCost  float64
	BasePayout  int64
	SuccessRate float64 // 0–1
	HeatGain    float64 // added to heat on failure; halved for agents on success
}

var crimes = map[string]Crime{
	"pickpocket": {
		ID: "pickpocket", Name: "Pickpocketing",
		MinLevel: 1, EnergyCost: 5, BasePayout: 75, SuccessRate: 0.85, HeatGain: 4,
	},
	"shoplifting": {
		ID: "shoplifting", Name: "Shoplifting",
		MinLevel: 1, EnergyCost: 8, BasePayout: 120, SuccessRate: 0.75, HeatGain: 6,
	},
	"mugging": {
		ID: "mugging", Name: "Mugging",
		MinLevel: 2, EnergyCost: 12, BasePayout: 250, SuccessRate: 0.65, HeatGain: 10,
	},
	"car_theft": {
		ID: "car_theft", Name: "Car Theft",
		MinLevel: 3, EnergyCost: 15, BasePayout: 600, SuccessRate: 0.55, HeatGain: 14,
	},
	"burglary": {
		ID: "burglary", Name: "Burglary",
		MinLevel: 4, EnergyCost: 20, BasePayout: 1200, SuccessRate: 0.45, HeatGain: 18,
	},
	"smuggling_run": {
		ID: "smuggling_run", Name: "Smuggling Run",
		MinLevel: 6, EnergyCost: 25, BasePayout: 2500, SuccessRate: 0.40, HeatGain: 22,
	},
	"armored_truck": {
		ID: "armored_truck", Name: "Armored Truck Job",
		MinLevel: 8, EnergyCost: 35, BasePayout: 6000, SuccessRate: 0.30, HeatGain: 30,
	},
	"casino_heist": {
		ID: "casino_heist", Name: "Casino Heist",
		MinLevel: 10, EnergyCost: 50, BasePayout: 15000, SuccessRate: 0.20, HeatGain: 40,
	},
}

// CrimeByID resolves a crime definition.
func CrimeByID(id string) (Crime, bool) {
	c, ok := crimes[id]
	return c, ok
}

// CrimeIDs returns all crime ids in a stable order.
func CrimeIDs() []string {
	return []string{
		"pickpocket", "shoplifting", "mugging", "car_theft",
		"burglary", "smuggling_run", "armored_truck", "casino_heist",
	}
}
