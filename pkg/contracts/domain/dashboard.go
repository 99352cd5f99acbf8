package domain

// Selection is the subset of the long table matching a (year[, category])
// filter. NoData marks a filter that matched nothing, which is a normal
// user-reachable state rather than an error.
type Selection struct {
	Year     int       `json:"year"`
	Category *Category `json:"category,omitempty"`
	Rows     []LongRow `json:"rows"`
	NoData   bool      `json:"no_data"`
}

// DeltaSet holds one DeltaRow per entity present for (Year, Category), sorted
// by difference descending.
//
// Degenerate is set when Year is the earliest year in the data: no prior year
// exists, so every difference equals the current value.
type DeltaSet struct {
	Year       int        `json:"year"`
	Category   Category   `json:"category"`
	Rows       []DeltaRow `json:"rows"`
	Degenerate bool       `json:"degenerate"`
	NoData     bool       `json:"no_data"`
}

// Migration partitions a delta set into entities that moved beyond a fixed
// absolute threshold in either direction.
type Migration struct {
	Year             int        `json:"year"`
	Category         Category   `json:"category"`
	Threshold        float64    `json:"threshold"`
	Increased        []DeltaRow `json:"increased"`
	Decreased        []DeltaRow `json:"decreased"`
	IncreasedPercent int        `json:"increased_percent"`
	DecreasedPercent int        `json:"decreased_percent"`
	Degenerate       bool       `json:"degenerate"`
	NoData           bool       `json:"no_data"`
}

// Mover is a display-ready headline metric for one entity.
type Mover struct {
	Entity     string  `json:"entity"`
	Value      float64 `json:"value"`
	Difference float64 `json:"difference"`
	ValueText  string  `json:"value_text"`
	DeltaText  string  `json:"delta_text"`
}

// Movers carries the largest increase and the largest decrease of a delta set.
// Both are placeholders ("-") when the set has no usable prior year.
type Movers struct {
	Year     int      `json:"year"`
	Category Category `json:"category"`
	Top      Mover    `json:"top"`
	Bottom   Mover    `json:"bottom"`
	NoData   bool     `json:"no_data"`
}

// ColorTheme is one of the fixed color scales offered by the dashboard.
type ColorTheme string

const (
	ThemeBlues   ColorTheme = "blues"
	ThemeCividis ColorTheme = "cividis"
	ThemeGreens  ColorTheme = "greens"
	ThemeInferno ColorTheme = "inferno"
	ThemeMagma   ColorTheme = "magma"
	ThemePlasma  ColorTheme = "plasma"
	ThemeReds    ColorTheme = "reds"
	ThemeRainbow ColorTheme = "rainbow"
	ThemeTurbo   ColorTheme = "turbo"
	ThemeViridis ColorTheme = "viridis"
)

// ColorThemes lists the available themes in menu order.
func ColorThemes() []ColorTheme {
	return []ColorTheme{
		ThemeBlues, ThemeCividis, ThemeGreens, ThemeInferno, ThemeMagma,
		ThemePlasma, ThemeReds, ThemeRainbow, ThemeTurbo, ThemeViridis,
	}
}

// Valid reports whether t is one of the fixed themes.
func (t ColorTheme) Valid() bool {
	for _, theme := range ColorThemes() {
		if t == theme {
			return true
		}
	}
	return false
}

// Options describes the selector values the dashboard offers.
type Options struct {
	Years           []int        `json:"years"`
	Categories      []Category   `json:"categories"`
	ColorThemes     []ColorTheme `json:"color_themes"`
	DefaultYear     int          `json:"default_year"`
	DefaultCategory Category     `json:"default_category"`
	DefaultTheme    ColorTheme   `json:"default_theme"`
}

// HeatmapCell is one (entity, year) cell of the heatmap.
type HeatmapCell struct {
	Entity string  `json:"entity"`
	Year   int     `json:"year"`
	Value  float64 `json:"value"`
}

// Heatmap is the entity × year grid for a single category.
type Heatmap struct {
	Category Category      `json:"category"`
	Entities []string      `json:"entities"`
	Years    []int         `json:"years"`
	Cells    []HeatmapCell `json:"cells"`
	MaxValue float64       `json:"max_value"`
	NoData   bool          `json:"no_data"`
}

// SeriesPoint is one point of an entity's time series.
type SeriesPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Series is the year-ordered history of one entity.
type Series struct {
	Entity string        `json:"entity"`
	Points []SeriesPoint `json:"points"`
}

// TimeSeries groups every entity's history for one category.
type TimeSeries struct {
	Category Category `json:"category"`
	Series   []Series `json:"series"`
	NoData   bool     `json:"no_data"`
}

// PieSlice is an entity's portion of a year's total.
type PieSlice struct {
	Entity  string  `json:"entity"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// Pie is the composition of one (year, category) total.
type Pie struct {
	Year     int        `json:"year"`
	Category Category   `json:"category"`
	Total    float64    `json:"total"`
	Slices   []PieSlice `json:"slices"`
	NoData   bool       `json:"no_data"`
}

// Choropleth is a selection joined to boundary geometries; every matched
// feature carries "value" in its properties.
type Choropleth struct {
	Year      int               `json:"year"`
	Category  Category          `json:"category"`
	Theme     ColorTheme        `json:"theme"`
	RangeMax  float64           `json:"range_max"`
	Features  FeatureCollection `json:"features"`
	Unmatched []string          `json:"unmatched,omitempty"`
	NoData    bool              `json:"no_data"`
}
