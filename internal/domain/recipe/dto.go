package recipe

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RecipeInput is the flattened write payload shared by create and update.
type RecipeInput struct {
	Title             *string         `json:"title"`
	SourceURL         *string         `json:"sourceUrl"`
	Description       *string         `json:"description"`
	Servings          *int            `json:"servings" binding:"omitempty,min=0"`
	Yields            *string         `json:"yields"`
	Favorite          *bool           `json:"favorite"`
	ImageURL          *string         `json:"imageUrl"`
	CourseID          *int64          `json:"courseId"`
	CourseName        *string         `json:"courseName"`
	CuisineID         *int64          `json:"cuisineId"`
	CuisineName       *string         `json:"cuisineName"`
	KeyIngredientID   *int64          `json:"keyIngredientId"`
	KeyIngredientText *string         `json:"keyIngredientText"`
	Tags              []string        `json:"tags"`
	Ingredients       []IngredientRow `json:"ingredients"`
	Steps             []StepText      `json:"steps"`
}

type IngredientRow struct {
	Type          string      `json:"type"`
	Amount        *FlexString `json:"amount"`
	UnitID        *int64      `json:"unitId"`
	ProductID     *int64      `json:"productId"`
	Name          *string     `json:"name"`
	Notes         *string     `json:"notes"`
	Heading       *string     `json:"heading"`
	RawText       *string     `json:"rawText"`
	CandidateName *string     `json:"candidateName"`
}

// FlexString accepts a JSON string or number, e.g. "2" or 1.5 for an amount.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// StepText decodes any JSON value into step text: strings verbatim, numbers
// in plain decimal form, booleans as their literal, everything else as "".
type StepText string

func (s *StepText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = StepText(str)
	case data[0] == '{' || data[0] == '[':
		*s = ""
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*s = StepText(data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		f, err := n.Float64()
		if err != nil {
			return err
		}
		*s = StepText(formatNumber(f))
	}
	return nil
}

// formatNumber renders a step number in its shortest plain form: 5.0 is "5",
// 1e2 is "100" and -0 is "0".
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type FavoriteRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

type LinkRequest struct {
	ProductID *int64 `json:"productId"`
}

type ListFilter struct {
	Query    string
	Tag      string
	Course   string
	Cuisine  string
	Favorite *bool
	Limit    int
	Offset   int
}

type Taxonomy struct {
	Courses  []Course  `json:"courses"`
	Cuisines []Cuisine `json:"cuisines"`
	Tags     []Tag     `json:"tags"`
}

type IngredientAvailability struct {
	IngredientID int64  `json:"ingredientId"`
	Idx          int    `json:"idx"`
	RawText      string `json:"rawText"`
	ProductID    *int64 `json:"productId"`
	LinkStatus   string `json:"linkStatus"`
	InStock      bool   `json:"inStock"`
}

type Availability struct {
	RecipeID    int64                    `json:"recipeId"`
	Ingredients []IngredientAvailability `json:"ingredients"`
	Total       int                      `json:"total"`
	InStock     int                      `json:"inStock"`
	Missing     int                      `json:"missing"`
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
