// Package catalog provides the static game-data tables: personality
// archetypes, crimes, properties, and tradeable goods.
package catalog

// Archetype identifies a personality template.
type Archetype string

const (
	ArchKingpin   Archetype = "kingpin"
	ArchHustler   Archetype = "hustler"
	ArchEnforcer  Archetype = "enforcer"
	ArchSocialite Archetype = "socialite"
	ArchSaboteur  Archetype = "saboteur"
	ArchWildcard  Archetype = "wildcard"
	ArchTactician Archetype = "tactician"
	ArchGrinder   Archetype = "grinder"
)

// Archetypes lists every archetype in a fixed order. The first agents of a
// fresh population are generated one per archetype in this order.
var Archetypes = []Archetype{
	ArchKingpin, ArchHustler, ArchEnforcer, ArchSocialite,
	ArchSaboteur, ArchWildcard, ArchTactician, ArchGrinder,
}

// TraitVector holds the baseline behavioral scalars of an archetype, each in [0,1].
type TraitVector struct {
	Risk       float64
	Aggression float64
	Social     float64
	Patience   float64
	Deception  float64
}

// Personality is one archetype's full template.
type Personality struct {
	Archetype Archetype
	Traits    TraitVector

	// Noise is the decision-randomness radius for this archetype.
	// Scores are multiplied by a factor drawn from [1-Noise, 1+Noise].
	Noise float64

	// ContactAffinity marks archetypes that seek out the player.
	ContactAffinity bool
}

var personalities = map[Archetype]Personality{
	ArchKingpin: {
		Archetype: ArchKingpin,
		Traits:    TraitVector{Risk: 0.60, Aggression: 0.70, Social: 0.50, Patience: 0.60, Deception: 0.55},
		Noise:     0.10,
	},
	ArchHustler: {
		Archetype:       ArchHustler,
		Traits:          TraitVector{Risk: 0.70, Aggression: 0.40, Social: 0.80, Patience: 0.30, Deception: 0.70},
		Noise:           0.15,
		ContactAffinity: true,
	},
	ArchEnforcer: {
		Archetype: ArchEnforcer,
		Traits:    TraitVector{Risk: 0.60, Aggression: 0.90, Social: 0.30, Patience: 0.40, Deception: 0.25},
		Noise:     0.10,
	},
	ArchSocialite: {
		Archetype:       ArchSocialite,
		Traits:          TraitVector{Risk: 0.40, Aggression: 0.20, Social: 0.95, Patience: 0.50, Deception: 0.40},
		Noise:           0.10,
		ContactAffinity: true,
	},
	ArchSaboteur: {
		Archetype: ArchSaboteur,
		Traits:    TraitVector{Risk: 0.50, Aggression: 0.60, Social: 0.60, Patience: 0.45, Deception: 0.90},
		Noise:     0.15,
	},
	ArchWildcard: {
		Archetype: ArchWildcard,
		Traits:    TraitVector{Risk: 0.90, Aggression: 0.60, Social: 0.50, Patience: 0.10, Deception: 0.50},
		Noise:     0.50,
	},
	ArchTactician: {
		Archetype: ArchTactician,
		Traits:    TraitVector{Risk: 0.30, Aggression: 0.40, Social: 0.30, Patience: 0.90, Deception: 0.60},
		Noise:     0.10,
	},
	ArchGrinder: {
		Archetype: ArchGrinder,
		Traits:    TraitVector{Risk: 0.35, Aggression: 0.30, Social: 0.25, Patience: 0.80, Deception: 0.20},
		Noise:     0.10,
	},
}

// PersonalityFor returns the template for an archetype.
func PersonalityFor(arch Archetype) (Personality, bool) {
	p, ok := personalities[arch]
	return p, ok
}

// Name pools for procedural agent naming.
var FirstNames = []string{
	"Vinnie", "Sal", "Rocco", "Marco", "Tony", "Frankie", "Lou", "Nico",
	"Dante", "Ezra", "Silas", "Ray", "Otis", "Cass", "Lena", "Ruby",
	"Ivy", "Nadia", "Carmen", "Dolores", "Gia", "Mona", "Pearl", "Sadie",
	"Joey", "Ace", "Marcus", "Deshawn", "Andrei", "Viktor", "Kenji", "Paulo",
}

var Handles = []string{
	"the Blade", "Two-Step", "the Ghost", "Knuckles", "Slick", "the Fox",
	"Deadeye", "the Wire", "Smoke", "Halfpint", "the Saint", "Razor",
	"Lucky", "the Owl", "Ice", "Matchstick", "the Jackal", "Velvet",
}

var LastNames = []string{
	"Moretti", "Castellano", "Valdez", "Romano", "Kowalski", "Donnelly",
	"Okafor", "Petrov", "Marchetti", "Falcone", "Reyes", "Lombardi",
	"Navarro", "Graves", "Delgado", "Vance", "Costa", "Mercer",
	"Estrada", "Kravitz", "Boone", "Salazar", "Quinn", "Varga",
}
