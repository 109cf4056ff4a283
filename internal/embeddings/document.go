// ABOUTME: Builds the canonical text of an entry that is fed to the embedding provider.
// ABOUTME: Fixed line order, empty lines omitted, identical input gives identical output.
package embeddings

import (
	"strings"

	"github.com/2389-research/revibe/internal/models"
)

// UntitledPlaceholder stands in for an empty title.
const UntitledPlaceholder = "Untitled"

// BuildDocumentText renders an entry with its identification and learning as labeled lines.
func BuildDocumentText(entry *models.Entry) string {
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		title = UntitledPlaceholder
	}

	lines := []string{
		"Title: " + title,
		"Description: " + entry.Description,
	}

	if entry.Focus != "" {
		lines = append(lines, "Focus: "+entry.Focus)
	}

	if ident := entry.Identification; ident != nil {
		if ident.MainCategory != "" {
			lines = append(lines, "Category: "+ident.MainCategory)
		}
		if ident.SubCategory != "" {
			lines = append(lines, "Subcategory: "+ident.SubCategory)
		}
		if values := ident.Assumptions.Data().Values(); len(values) > 0 {
			lines = append(lines, "Assumptions: "+strings.Join(values, ", "))
		}
	}

	if entry.Learning != nil && entry.Learning.ActionPlan != "" {
		lines = append(lines, "Learning: "+entry.Learning.ActionPlan)
	}

	return strings.Join(lines, "\n")
}
