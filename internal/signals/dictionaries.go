// Package signals holds the static keyword and phrase dictionaries used by
// the classification and scoring engines, plus the matchers built from
// them. The lists are process-wide constants: loaded once, never mutated.
//
// Two building-phrase dictionaries exist on purpose. The departure
// classifier and the three-level orchestrator evolved as separate features
// with overlapping but non-identical phrase lists and thresholds, and both
// rule sets are preserved as distinct strategies.
package signals

// BigTech is the eligibility gate for departure classification: a
// departure only alerts when the old company matches one of these
// (case-insensitive substring).
var BigTech = []string{
	"openai", "anthropic", "deepmind", "google deepmind", "inflection ai",
	"character ai", "cohere", "hugging face", "stability ai", "midjourney",
	"mistral", "mistral ai", "perplexity", "adept", "aleph alpha",
	"google", "alphabet", "meta", "facebook", "microsoft", "apple",
	"amazon", "nvidia", "tesla", "netflix", "adobe", "salesforce",
	"palantir", "databricks", "scale ai", "uber", "airbnb", "linkedin",
}

// OrchestratorBigTech is the broader company list used by the three-level
// orchestrator's eligibility gate.
var OrchestratorBigTech = []string{
	// Pure AI companies (highest priority).
	"openai", "anthropic", "deepmind", "inflection ai", "character ai",
	"cohere", "hugging face", "stability ai", "midjourney", "runway",

	// Major tech with AI focus.
	"google", "alphabet", "meta", "facebook", "microsoft", "apple",
	"amazon", "nvidia", "tesla", "netflix", "adobe", "salesforce",

	// Chinese AI companies.
	"deepseek", "baidu", "alibaba", "tencent", "bytedance",

	// Other notable AI/tech.
	"palantir", "databricks", "scale ai", "cruise", "waymo",
	"neuralink", "figure", "boston dynamics",
}

// PureAITech are the companies whose alumni get the strongest prior-company
// boost in stealth detection.
var PureAITech = []string{
	"openai", "anthropic", "deepmind", "inflection ai", "character ai",
	"cohere", "hugging face", "stability ai", "midjourney", "mistral",
}

// AIFocusedBigTech are the broader big-tech companies with heavy AI
// investment; alumni get a smaller boost.
var AIFocusedBigTech = []string{
	"google", "alphabet", "meta", "facebook", "microsoft", "apple",
	"amazon", "nvidia", "tesla", "netflix", "adobe", "salesforce",
}

// PriorityAICompanies get an extra timing bonus when the candidate left
// one of them recently.
var PriorityAICompanies = []string{"openai", "anthropic", "google", "deepmind", "meta"}

// AIMLRoles and AIMLSubRoles match the vendor's normalized role taxonomy.
var (
	AIMLRoles    = []string{"research", "engineering"}
	AIMLSubRoles = []string{"data_science", "machine_learning", "data_engineering", "scientific"}
)

// ClassifierBuildingPhrases feeds the departure classifier's level-2
// detection. Single-word entries match on word boundaries, multi-word
// entries as plain substrings.
var ClassifierBuildingPhrases = []string{
	// Direct building statements.
	"building something new", "building something cool", "building something exciting",
	"building something big", "building something special", "building in stealth",
	"building the future", "building next generation", "building ai",

	// Working-on variations.
	"working on something new", "working on something exciting", "working on something cool",
	"working on something big", "working on a new venture", "working on a startup",
	"working on stealth", "working on something special", "working on the next",

	// Creating / developing.
	"creating something new", "creating the future", "developing something",
	"launching soon", "launching startup", "starting something new",
	"starting a company", "new venture", "new project",

	// Founder / entrepreneur signals.
	"founder", "co-founder", "cofounder", "founding team", "entrepreneur",
	"stealth", "stealth mode", "stealth startup", "pre-launch", "pre-seed",

	// Other signals.
	"something new", "stay tuned", "more to come", "exciting things",
	"big things coming", "next chapter", "new journey", "new adventure",
	"exploring opportunities", "taking a break", "sabbatical",
}

// OrchestratorBuildingPhrases is the superset dictionary scanned by the
// three-level orchestrator across every text field of a candidate.
var OrchestratorBuildingPhrases = []string{
	// Direct building statements.
	"building something new", "building something cool", "building something exciting",
	"building something big", "building something special", "building in stealth",
	"building in public", "building the future", "building next generation", "building ai",

	// Working-on variations.
	"working on something new", "working on something exciting", "working on something cool",
	"working on something big", "working on a new venture", "working on a startup",
	"working on stealth", "working on something special", "working on the next big thing",
	"working on it",

	// Creating / developing.
	"creating something new", "creating the future", "developing something exciting",
	"developing new technology", "launching soon", "launching startup",
	"starting something new", "starting a company",

	// Founder / entrepreneur.
	"founder", "co-founder", "cofounder", "founding team", "founding member",
	"founding engineer", "technical co-founder", "entrepreneur", "solopreneur",

	// Stealth / confidential.
	"stealth mode", "stealth startup", "stealth", "confidential",
	"can't share yet", "cannot share yet", "under wraps", "under nda", "hush hush",

	// Coming soon / future.
	"coming soon", "more to come", "stay tuned", "watch this space",
	"big things coming", "exciting things ahead", "to be announced",
	"tba", "tbd", "announcement coming",

	// New venture / chapter.
	"new venture", "new adventure", "new chapter", "new journey",
	"next chapter", "next adventure", "new beginning",
	"pursuing new opportunities", "exploring opportunities",

	// Early stage.
	"0 to 1", "0->1", "zero to one", "day one", "day zero",
	"ground floor", "early stage", "pre-seed", "seed stage", "bootstrap",

	// Vague but telling.
	"taking a break", "on sabbatical", "figuring out what's next",
	"exploring ideas", "independent", "self-employed", "consultant",
	"advisor", "angel investor",

	// AI/tech specific.
	"ai startup", "ml startup", "building agi", "ai research",
	"independent research", "research lab", "ai lab", "new lab",

	// Team building.
	"hiring soon", "building a team", "looking for co-founders",
	"assembling team", "join us", "we're hiring", "recruiting founding team",
}

// Stealth-detector indicator groups.
var (
	StrongCompanySignals = []string{"stealth", "stealth startup", "stealth mode"}

	ModerateCompanySignals = []string{
		"new venture", "building", "labs", "research",
		"ai labs", "ml labs", "consulting", "advisor",
		"personal project", "independent", "self-employed",
	}

	FounderTitles = []string{
		"founder", "co-founder", "cofounder",
		"founding engineer", "technical co-founder",
		"ceo", "cto", "chief executive", "chief technology",
	}

	BuildingTitles = []string{
		"building", "0 to 1", "0->1", "creating",
		"working on", "developing", "early stage",
	}

	VagueTitles = []string{"consultant", "advisor", "independent", "self"}

	StealthPhrases = []string{
		"building something cool", "building something new",
		"working on something exciting", "can't share yet",
		"more to come", "stay tuned", "stealth mode",
		"confidential", "under wraps", "coming soon",
		"exciting project", "new adventure", "next chapter",
		"something big", "watch this space", "to be announced",
		"tbd", "working on it", "building in stealth",
	}

	ProfileChangePhrases = []string{
		"opinions are my own", "views are my own",
		"building @", "founder @", "previously @",
	}
)

// Founder-scorer skill sets.
var (
	LLMGenAISkills = []string{
		"llm", "large language model", "gpt", "generative ai", "transformer",
		"prompt engineering", "langchain", "vector database", "rag", "fine-tuning",
	}

	AIMLSkills = []string{
		"machine learning", "artificial intelligence", "deep learning",
		"data science", "neural networks", "computer vision", "nlp",
		"tensorflow", "pytorch", "scikit-learn",
	}

	InfraSkills = []string{
		"kubernetes", "docker", "aws", "gcp", "azure", "devops",
		"microservices", "distributed systems", "scaling",
	}
)

// Location tiers for founder scoring.
var (
	Tier1Regions = []string{"california", "washington"}
	Tier1Cities  = []string{"san francisco", "palo alto", "mountain view", "seattle", "bellevue", "menlo park"}
	Tier2Regions = []string{"new york", "texas", "massachusetts", "colorado"}
	Tier2Cities  = []string{"new york", "austin", "boston", "cambridge", "brooklyn", "denver", "boulder"}
)

// StartupHubs are relocation targets that count toward stealth profile
// consistency.
var StartupHubs = []string{"san francisco", "palo alto", "mountain view", "austin", "seattle"}

// TopSchools for the education component; first match wins.
var TopSchools = []string{
	"stanford", "mit", "harvard", "berkeley", "carnegie mellon",
	"georgia tech", "caltech", "university of washington",
	"princeton", "yale", "columbia", "cornell", "oxford", "cambridge",
}

// HighGrowthCompanies count toward startup readiness.
var HighGrowthCompanies = []string{"stripe", "airbnb", "uber", "lyft", "doordash", "coinbase", "robinhood"}

// SeniorTitleKeywords flag senior-level job titles in free text.
var SeniorTitleKeywords = []string{"director", "vp", "vice president", "head", "chief", "principal", "staff", "senior"}
