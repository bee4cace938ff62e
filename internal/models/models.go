package models

import "time"

type ServingUnit string

const (
	UnitGrams       ServingUnit = "g"
	UnitMilliliters ServingUnit = "ml"
	UnitCup         ServingUnit = "cup"
	UnitTablespoon  ServingUnit = "tbsp"
	UnitTeaspoon    ServingUnit = "tsp"
	UnitNos         ServingUnit = "nos"
)

var AllServingUnits = []ServingUnit{
	UnitGrams, UnitMilliliters, UnitCup, UnitTablespoon, UnitTeaspoon, UnitNos,
}

func (unit ServingUnit) Valid() bool {
	for _, u := range AllServingUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// DefaultServingSize is the serving size an ingredient gets when none is
// supplied: 100 for weight/volume units, 1 for everything else.
func DefaultServingSize(unit ServingUnit) float64 {
	if unit == UnitGrams || unit == UnitMilliliters {
		return 100
	}
	return 1
}

type MealType string

const (
	MealTypePreBreakfast MealType = "pre-breakfast"
	MealTypeBreakfast    MealType = "breakfast"
	MealTypeLunch        MealType = "lunch"
	MealTypeDinner       MealType = "dinner"
	MealTypeSnack        MealType = "snack"
	MealTypeWeekendPrep  MealType = "weekend prep"
	MealTypeSides        MealType = "sides"
)

var AllMealTypes = []MealType{
	MealTypePreBreakfast, MealTypeBreakfast, MealTypeLunch,
	MealTypeDinner, MealTypeSnack, MealTypeWeekendPrep, MealTypeSides,
}

func (mealType MealType) Valid() bool {
	for _, m := range AllMealTypes {
		if mealType == m {
			return true
		}
	}
	return false
}

type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

var AllDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (day Day) Valid() bool {
	for _, d := range AllDays {
		if day == d {
			return true
		}
	}
	return false
}

// Owner identifies who a row belongs to: either a specific user or the
// shared global stock visible to everyone. The zero value is global.
type Owner struct {
	userID string
}

func GlobalOwner() Owner {
	return Owner{}
}

func OwnedBy(userID string) Owner {
	return Owner{userID: userID}
}

func (owner Owner) IsGlobal() bool {
	return owner.userID == ""
}

// UserID returns the owning user id and true, or "" and false for global rows.
func (owner Owner) UserID() (string, bool) {
	return owner.userID, owner.userID != ""
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Ingredient struct {
	ID            string      `json:"id"`
	Owner         Owner       `json:"-"`
	Name          string      `json:"name"`
	ShelfLife     *int        `json:"shelf_life"`
	Available     bool        `json:"available"`
	LastAvailable *time.Time  `json:"last_available"`
	ServingUnit   ServingUnit `json:"serving_unit"`
	ServingSize   float64     `json:"serving_size"`

	// Nutrients per serving size.
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
	Fiber   float64 `json:"fiber"`
	Energy  float64 `json:"energy"`

	IronMg      float64 `json:"iron_mg"`
	MagnesiumMg float64 `json:"magnesium_mg"`
	CalciumMg   float64 `json:"calcium_mg"`
	PotassiumMg float64 `json:"potassium_mg"`
	SodiumMg    float64 `json:"sodium_mg"`
	VitaminCMg  float64 `json:"vitamin_c_mg"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IngredientListItem is an ingredient enriched with the shelf life remaining
// since it was last marked available.
type IngredientListItem struct {
	Ingredient
	RemainingShelfLife *int `json:"remaining_shelf_life"`
}

// RecipeLineItem references an ingredient by name, not id. Renaming an
// ingredient rewrites matching line items in every visible recipe.
type RecipeLineItem struct {
	Name        string      `json:"name"`
	Quantity    float64     `json:"quantity"`
	ServingUnit ServingUnit `json:"serving_unit"`
}

type Recipe struct {
	ID           string           `json:"id"`
	Owner        Owner            `json:"-"`
	Name         string           `json:"name"`
	Serves       int              `json:"serves"`
	Ingredients  []RecipeLineItem `json:"ingredients"`
	Instructions string           `json:"instructions"`
	MealType     MealType         `json:"meal_type"`
	IsVegetarian bool             `json:"is_vegetarian"`

	// Aggregate nutrients are derived from ingredient data at write time,
	// never authored by the caller.
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
	Fiber   float64 `json:"fiber"`
	Energy  float64 `json:"energy"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlanSlot holds the recipes planned for one (day, meal type) cell of a
// user's weekly grid. Slots are always private to their user.
type PlanSlot struct {
	UserID    string    `json:"-"`
	Day       Day       `json:"day"`
	MealType  MealType  `json:"meal_type"`
	RecipeIDs []string  `json:"recipe_ids"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// WeeklyPlanGrid is the full 7 x meal-type grid, every cell defaulting to an
// empty list.
type WeeklyPlanGrid map[Day]map[MealType][]string

func NewWeeklyPlanGrid() WeeklyPlanGrid {
	grid := make(WeeklyPlanGrid, len(AllDays))
	for _, day := range AllDays {
		cells := make(map[MealType][]string, len(AllMealTypes))
		for _, mealType := range AllMealTypes {
			cells[mealType] = []string{}
		}
		grid[day] = cells
	}
	return grid
}

type NutritionTotals struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
	Fiber   float64 `json:"fiber"`
	Energy  float64 `json:"energy"`
}

func (totals *NutritionTotals) Add(other NutritionTotals) {
	totals.Protein += other.Protein
	totals.Carbs += other.Carbs
	totals.Fat += other.Fat
	totals.Fiber += other.Fiber
	totals.Energy += other.Energy
}

// ShoppingListItem aggregates the quantity of one unavailable ingredient
// across all planned recipes. The first serving unit seen wins; no unit
// conversion is attempted.
type ShoppingListItem struct {
	Name        string      `json:"name"`
	Quantity    float64     `json:"quantity"`
	ServingUnit ServingUnit `json:"serving_unit"`
}
