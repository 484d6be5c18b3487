package entity

// Category is a closed content classification used as a request filter and
// optional Source classification. It is not identity-bearing.
type Category string

const (
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryGeneral       Category = "general"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
)

// Categories returns the full closed enumeration in declaration order.
func Categories() []Category {
	return []Category{
		CategoryBusiness,
		CategoryEntertainment,
		CategoryGeneral,
		CategoryHealth,
		CategoryScience,
		CategorySports,
		CategoryTechnology,
	}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Language is an ISO 639-1 style language code filter.
type Language string

const (
	LanguageAR Language = "ar"
	LanguageDE Language = "de"
	LanguageEN Language = "en"
	LanguageES Language = "es"
	LanguageFR Language = "fr"
	LanguageHE Language = "he"
	LanguageIT Language = "it"
	LanguageNL Language = "nl"
	LanguageNO Language = "no"
	LanguagePT Language = "pt"
	LanguageRU Language = "ru"
	LanguageSV Language = "sv"
	LanguageUD Language = "ud"
	LanguageZH Language = "zh"
)

// Country is an ISO 3166-1 style country code filter.
type Country string

const (
	CountryAE Country = "ae"
	CountryAR Country = "ar"
	CountryAT Country = "at"
	CountryAU Country = "au"
	CountryBE Country = "be"
	CountryBG Country = "bg"
	CountryBR Country = "br"
	CountryCA Country = "ca"
	CountryCH Country = "ch"
	CountryCO Country = "co"
	CountryCU Country = "cu"
	CountryCZ Country = "cz"
	CountryDE Country = "de"
	CountryEG Country = "eg"
	CountryFR Country = "fr"
	CountryGB Country = "gb"
	CountryGR Country = "gr"
	CountryHK Country = "hk"
	CountryHU Country = "hu"
	CountryID Country = "id"
	CountryIE Country = "ie"
	CountryIL Country = "il"
	CountryIN Country = "in"
	CountryIT Country = "it"
	CountryJP Country = "jp"
	CountryKR Country = "kr"
	CountryLT Country = "lt"
	CountryLV Country = "lv"
	CountryMA Country = "ma"
	CountryMX Country = "mx"
	CountryMY Country = "my"
	CountryNG Country = "ng"
	CountryNL Country = "nl"
	CountryNO Country = "no"
	CountryNZ Country = "nz"
	CountryPH Country = "ph"
	CountryPL Country = "pl"
	CountryPT Country = "pt"
	CountryRO Country = "ro"
	CountryRS Country = "rs"
	CountryRU Country = "ru"
	CountrySA Country = "sa"
	CountrySE Country = "se"
	CountrySG Country = "sg"
	CountrySI Country = "si"
	CountrySK Country = "sk"
	CountryTH Country = "th"
	CountryTR Country = "tr"
	CountryTW Country = "tw"
	CountryUA Country = "ua"
	CountryUS Country = "us"
	CountryVE Country = "ve"
	CountryZA Country = "za"
)
