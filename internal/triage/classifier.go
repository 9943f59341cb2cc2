// Package triage classifies incoming disruption reports, derives their
// priority and routes them to the owning department. All functions are pure
// and deterministic over (title, description).
package triage

import (
	"strings"

	"github.com/campusops/issue-service/internal/domain"
)

type categoryKeywords struct {
	category domain.IssueCategory
	keywords []string
}

// Category evaluation order matters: text can contain keywords from several
// categories and the first declared category wins.
var categoryTable = []categoryKeywords{
	{domain.CategoryTechnology, []string{
		"projector", "computer", "laptop", "wifi", "internet", "network",
		"printer", "software", "hardware", "screen", "monitor", "keyboard", "mouse",
	}},
	{domain.CategoryFurniture, []string{
		"desk", "chair", "table", "furniture", "broken chair", "broken desk",
		"wobbly", "drawer",
	}},
	{domain.CategoryUtilities, []string{
		"water", "cooler", "ac", "heating", "electricity", "power", "light",
		"bulb", "fan", "ventilation",
	}},
	{domain.CategoryFacilities, []string{
		"restroom", "toilet", "clean", "cleaning", "trash", "garbage", "leak",
		"plumbing", "door", "window", "lock",
	}},
	{domain.CategoryAcademic, []string{
		"marker", "whiteboard", "blackboard", "chalk", "book", "textbook",
		"supplies", "stationery",
	}},
}

// Categorize maps free report text to a category. It returns the first
// category in declaration order with any keyword present as a substring of
// the lowercased title+description, or CategoryOther when nothing matches.
func Categorize(title, description string) domain.IssueCategory {
	text := strings.ToLower(title + " " + description)
	for _, entry := range categoryTable {
		if containsAny(text, entry.keywords) {
			return entry.category
		}
	}
	return domain.CategoryOther
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
