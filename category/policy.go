package category

// Default generation settings shared by every category. Individual policies
// override these only where the category genuinely differs.
const (
	// DefaultModel is the completion model used when no prompt version
	// specifies one.
	DefaultModel = "google/gemini-2.5-flash-lite"

	// DefaultTemperature is the sampling temperature for summary generation.
	DefaultTemperature = 0.3

	// InstructionPrefix separates the resolved prompt from the document text
	// in the request payload.
	InstructionPrefix = "\n\nDokumentti:\n"
)

// Policy describes how documents of one category are stored, prompted and
// summarized.
type Policy struct {
	// Collection is the document store bucket for this category.
	Collection string

	// PromptLog is the bucket holding the category's prompt version history.
	PromptLog string

	// ArtifactPath is the well-known path of the fixed reference prompt used
	// when the category's latest prompt version is in test mode.
	ArtifactPath string

	// DefaultPrompt is the hardcoded system prompt used to bootstrap an empty
	// prompt log.
	DefaultPrompt string

	// Model is the default completion model id.
	Model string

	// Temperature is the default sampling temperature.
	Temperature float64

	// GenerateSummary controls whether documents of this category are sent to
	// the completion service at all. Case notes carry author-written summaries
	// and must never be machine-summarized.
	GenerateSummary bool

	// TimelineTitle is the base title used for the category's timeline entries.
	TimelineTitle string
}

var policies = map[Category]Policy{
	Notification: {
		Collection:   "LASTENSUOJELUILMOITUKSET",
		PromptLog:    "ILMOITUS_YHTEENVETO",
		ArtifactPath: "ILMOITUS_YHTEENVETO_PROMPT.md",
		DefaultPrompt: `Olet lastensuojelutyön asiantuntija. Analysoi lastensuojeluilmoitus ja palauta VAIN JSON-muotoinen vastaus seuraavassa muodossa:

{
  "date": "YYYY-MM-DD",
  "reporterSummary": "Ilmoittajan rooli lyhyesti",
  "summary": "Tiivis yhteenveto ilmoituksesta (max 2 lausetta)",
  "reason": "Keskeisin ilmoituksen peruste (max 100 merkkiä)",
  "highlights": ["keskeinen havainto"]
}

TÄRKEÄÄ:
- Päivämäärä: Käytä ilmoituksessa mainittua päivämäärää YYYY-MM-DD muodossa
- Palauta VAIN JSON, ei mitään muuta tekstiä`,
		Model:           DefaultModel,
		Temperature:     DefaultTemperature,
		GenerateSummary: true,
		TimelineTitle:   "Lastensuojeluilmoitus",
	},
	CaseNote: {
		Collection:      "ASIAKASKIRJAUKSET",
		PromptLog:       "ASIAKASKIRJAUS_YHTEENVETO",
		ArtifactPath:    "ASIAKASKIRJAUS_YHTEENVETO_PROMPT.md",
		DefaultPrompt:   `Olet AI-avustaja, joka luo tiivistelmiä asiakaskirjauksista.`,
		Model:           DefaultModel,
		Temperature:     DefaultTemperature,
		GenerateSummary: false,
		TimelineTitle:   "Asiakaskirjaus",
	},
	Decision: {
		Collection:   "PAATOKSET",
		PromptLog:    "PAATOS_YHTEENVETO",
		ArtifactPath: "PAATOS_YHTEENVETO_PROMPT.md",
		DefaultPrompt: `Olet lastensuojelutyön asiantuntija. Analysoi lastensuojelun päätös ja palauta VAIN JSON-muotoinen vastaus seuraavassa muodossa:

{
  "date": "YYYY-MM-DD",
  "summary": "Tiivis yhteenveto päätöksestä (max 2 lausetta)"
}

Palauta VAIN JSON, ei mitään muuta tekstiä.`,
		Model:           DefaultModel,
		Temperature:     DefaultTemperature,
		GenerateSummary: true,
		TimelineTitle:   "Päätös",
	},
	Assessment: {
		Collection:   "PALVELUTARVEARVIOINNIT",
		PromptLog:    "PALVELUNTARPEEN_ARVIOINTI_YHTEENVETO",
		ArtifactPath: "PALVELUNTARPEEN_ARVIOINTI_YHTEENVETO_PROMPT.md",
		DefaultPrompt: `Olet lastensuojelutyön asiantuntija. Analysoi palveluntarpeen arvioinnin kirjaus ja palauta VAIN JSON-muotoinen vastaus seuraavassa muodossa:

{
  "date": "YYYY-MM-DD",
  "summary": "Tiivis yhteenveto tapaamisesta (max 2 lausetta)",
  "highlights": ["keskeinen havainto"]
}

Keskity tapaamisen tarkoitukseen ja keskeisiin havaintoihin. Palauta VAIN JSON.`,
		Model:           DefaultModel,
		Temperature:     DefaultTemperature,
		GenerateSummary: true,
		TimelineTitle:   "Palveluntarvearviointi",
	},
	ServicePlan: {
		Collection:   "ASIAKASSUUNNITELMAT",
		PromptLog:    "ASIAKASSUUNNITELMA_YHTEENVETO",
		ArtifactPath: "ASIAKASSUUNNITELMA_YHTEENVETO_PROMPT.md",
		DefaultPrompt: `Olet lastensuojelutyön asiantuntija. Analysoi asiakassuunnitelma ja palauta VAIN JSON-muotoinen vastaus seuraavassa muodossa:

{
  "date": "YYYY-MM-DD",
  "summary": "Tiivis yhteenveto suunnitelmasta (max 2 lausetta)"
}

Keskity suunnitelman tavoitteisiin ja toimenpiteisiin. Palauta VAIN JSON.`,
		Model:           DefaultModel,
		Temperature:     DefaultTemperature,
		GenerateSummary: true,
		TimelineTitle:   "Asiakassuunnitelma",
	},
}

// PolicyFor returns the generation policy for a category. Unknown categories
// get a zero policy with generation disabled, so a bad category degrades to a
// no-op instead of a panic.
func PolicyFor(c Category) Policy {
	return policies[c]
}
