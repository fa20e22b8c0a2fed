package news

const (
	FallbackCountry = "Other"
	FallbackTheme   = "General"
)

// KeywordGroup maps a tag to the lower-case substrings that select it.
type KeywordGroup struct {
	Tag      string
	Keywords []string
}

// Tables is the curated matching data for the Enricher. Group order is
// significant: the first group with a hit wins.
type Tables struct {
	Countries       []KeywordGroup
	Themes          []KeywordGroup
	EntityPatterns  []string
	CountryFallback string
	ThemeFallback   string
}

// DefaultTables returns the editorial tables for Middle East and Caucasus
// coverage.
func DefaultTables() Tables {
	return Tables{
		Countries: []KeywordGroup{
			{"Iran", []string{"iran", "tehran", "isfahan", "qom", "iri", "irgc", "pasdaran"}},
			{"Israel/Palestine", []string{"israel", "israeli", "idf", "gaza", "rafah", "hamas", "west bank", "cisjord", "jerusalem"}},
			{"Lebanon", []string{"lebanon", "lebanese", "hezbollah", "beirut", "south lebanon", "margaliot"}},
			{"Syria", []string{"syria", "syrian", "damascus", "aleppo", "idlib", "daraa", "deir ez-zor"}},
			{"Iraq", []string{"iraq", "iraqi", "baghdad", "erbil", "kurdistan", "pmf", "hashd"}},
			{"Yemen", []string{"yemen", "houthi", "ansar allah", "sanaa", "hudaydah", "aden"}},
			{"Gulf", []string{"saudi", "ksa", "riyadh", "emirati", "uae", "abudhabi", "qatar", "doha", "bahrain", "oman", "muscat", "kuwait"}},
			{"Caucasus", []string{
				"armenia", "armenian", "yerevan", "azerbaijan", "azerbaijani", "baku", "nagorno", "karabakh",
				"artsakh", "nakhchivan", "zangezur", "georgia", "tbilisi", "abkhazia", "south ossetia", "ossetia",
			}},
			{"Egypt/Jordan", []string{"egypt", "cairo", "sinai", "jordan", "amman", "aqaba"}},
			{"Turkey", []string{"turkey", "türkiye", "ankara", "istanbul", "pkk", "sdf"}},
			{"Red Sea / Maritime", []string{"red sea", "mer rouge", "bab al-mandeb", "tanker", "suez", "hijack", "ais"}},
		},
		Themes: []KeywordGroup{
			{"Nuclear", []string{"iaea", "aiea", "jcpoa", "centrifuge", "enrichment", "ir-"}},
			{"Security/Conflict", []string{"strike", "airstrike", "rocket", "missile", "drone", "uav", "shell", "incursion", "clash"}},
			{"Diplomacy/Sanctions", []string{"sanction", "designation", "talks", "negotiation", "normalis", "e3", "eu", "ofac", "ofsi", "eeas"}},
			{"Humanitarian", []string{"ocha", "relief", "displaced", "casualties", "aid", "famine", "hostage", "prisoner exchange"}},
			{"Maritime/Energy", []string{"tanker", "pipeline", "opec", "gas field", "lng", "ais", "strait", "shipping"}},
			{"Domestic Politics", []string{"cabinet", "coalition", "knesset", "election", "parliament", "minister", "dissolution"}},
		},
		EntityPatterns: []string{
			`\bIAEA\b|\bAIEA\b`, `\bE3\b`, `\bIRGC\b|\bPasdaran\b`,
			`\bHezbollah\b`, `\bHouthi\b`, `\bOFAC\b|\bOFSI\b|\bEU\b`,
			`\bIDF\b`, `\bPKK\b|\bSDF\b`, `\bRSF\b`,
		},
		CountryFallback: FallbackCountry,
		ThemeFallback:   FallbackTheme,
	}
}
