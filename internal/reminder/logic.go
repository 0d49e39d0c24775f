package reminder

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// minIngredientsInInventory is how many of a recipe's ingredients the
	// user must have before it is worth suggesting.
	minIngredientsInInventory = 2
	// windowMinutes is how long after the configured time a reminder still
	// fires. Matches the scheduler interval so each meal fires once.
	windowMinutes = 15
)

var quantityPrefix = regexp.MustCompile(`(?i)^[\d.,]+\s*(g|kg|ml|l|lb|oz|tbsp|tsp|cup|cups)?\s*`)

// coreName strips a leading quantity and unit from an ingredient string,
// e.g. "200g spaghetti" becomes "spaghetti".
func coreName(ingredient string) string {
	lower := strings.ToLower(strings.TrimSpace(ingredient))
	without := strings.TrimSpace(quantityPrefix.ReplaceAllString(lower, ""))
	if without == "" {
		return lower
	}
	return without
}

// isInInventory matches an ingredient against inventory names in either
// containment direction, so "spaghetti" matches "spaghetti pasta" and vice
// versa.
func isInInventory(ingredient string, inventoryNames []string) bool {
	core := coreName(ingredient)
	if core == "" {
		return false
	}
	for _, inv := range inventoryNames {
		if strings.Contains(core, inv) || strings.Contains(inv, core) {
			return true
		}
	}
	return false
}

func countInInventory(ingredients, inventoryNames []string) int {
	n := 0
	for _, ing := range ingredients {
		if isInInventory(ing, inventoryNames) {
			n++
		}
	}
	return n
}

// candidateRecipe is the slice of a recipe the suggestion ranking needs.
type candidateRecipe struct {
	ID             string
	Title          string
	Ingredients    []string
	LastPreparedAt *time.Time
}

// suggestedTitles picks up to limit recipe titles the user can cook with
// their current inventory. Priority: liked recipes first, then recently
// cooked, then never-cooked ones.
func suggestedTitles(recipes []candidateRecipe, likedRecipeIDs, inventoryNames []string, limit int) []string {
	if len(inventoryNames) == 0 {
		return nil
	}

	likedSet := make(map[string]bool, len(likedRecipeIDs))
	for _, id := range likedRecipeIDs {
		likedSet[id] = true
	}

	var candidates []candidateRecipe
	for _, r := range recipes {
		if countInInventory(r.Ingredients, inventoryNames) >= minIngredientsInInventory {
			candidates = append(candidates, r)
		}
	}

	var liked, cooked, added []candidateRecipe
	for _, id := range likedRecipeIDs {
		for _, r := range candidates {
			if r.ID == id {
				liked = append(liked, r)
			}
		}
	}
	for _, r := range candidates {
		if likedSet[r.ID] {
			continue
		}
		if r.LastPreparedAt != nil {
			cooked = append(cooked, r)
		} else {
			added = append(added, r)
		}
	}
	for i := 0; i < len(cooked); i++ {
		for j := i + 1; j < len(cooked); j++ {
			if cooked[j].LastPreparedAt.After(*cooked[i].LastPreparedAt) {
				cooked[i], cooked[j] = cooked[j], cooked[i]
			}
		}
	}

	ordered := append(append(liked, cooked...), added...)
	var titles []string
	for _, r := range ordered {
		if len(titles) == limit {
			break
		}
		if r.Title != "" {
			titles = append(titles, r.Title)
		}
	}
	return titles
}

// parseTime converts an "HH:MM" string to minutes since midnight. Malformed
// parts count as zero.
func parseTime(hhmm string) int {
	if hhmm == "" {
		return 0
	}
	parts := strings.SplitN(hhmm, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m := 0
	if len(parts) > 1 {
		m, _ = strconv.Atoi(parts[1])
	}
	return h*60 + m
}

// localMinutes is the current time in the named IANA timezone as minutes
// since midnight. Unknown zones fall back to UTC.
func localMinutes(utcNow time.Time, tzName string) int {
	tzName = strings.TrimSpace(tzName)
	if tzName == "" {
		tzName = "UTC"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}
	local := utcNow.In(loc)
	return local.Hour()*60 + local.Minute()
}

// mealDue returns which meal, if any, the given local time falls into.
func mealDue(settings mealTimes, minutes int) string {
	inWindow := func(start int) bool {
		return start <= minutes && minutes < start+windowMinutes
	}
	switch {
	case inWindow(settings.breakfast):
		return "Breakfast"
	case inWindow(settings.lunch):
		return "Lunch"
	case inWindow(settings.dinner):
		return "Dinner"
	default:
		return ""
	}
}

type mealTimes struct {
	breakfast, lunch, dinner int
}
