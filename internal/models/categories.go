// ABOUTME: Fixed taxonomy of main categories and subcategories used to tag identifications.
// ABOUTME: Provides lookup, validation, and label helpers for the category tree.
package models

import (
	"fmt"

	"github.com/2389-research/revibe/internal/apperrors"
)

// Main category values.
const (
	CategoryEmotionalMastery  = "emotional_mastery"
	CategoryCognitiveClarity  = "cognitive_clarity"
	CategorySocialRelational  = "social_relational"
	CategoryEthicalMoral      = "ethical_moral"
	CategoryPhysicalLifestyle = "physical_lifestyle"
	CategoryIdentityGrowth    = "identity_growth"
)

// SubCategory is a leaf of the taxonomy with its default severity weight.
type SubCategory struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Severity int    `json:"severity"`
}

// Category is a main category and its subcategories.
type Category struct {
	Value         string        `json:"value"`
	Label         string        `json:"label"`
	Subcategories []SubCategory `json:"subcategories"`
}

var categories = []Category{
	{
		Value:         CategoryEmotionalMastery,
		Label:         "Emotional Mastery",
		Subcategories: []SubCategory{
			{Value: "emotional_awareness", Label: "Emotional Awareness", Severity: 3},
			{Value: "anger_management", Label: "Anger Management", Severity: 6},
			{Value: "anxiety_and_worry", Label: "Anxiety and Worry", Severity: 5},
			{Value: "emotional_suppression", Label: "Emotional Suppression", Severity: 5},
			{Value: "jealousy_and_envy", Label: "Jealousy and Envy", Severity: 5},
			{Value: "emotional_dependency", Label: "Emotional Dependency", Severity: 4},
			{Value: "grief_and_loss_processing", Label: "Grief and Loss Processing", Severity: 4},
			{Value: "frustration_tolerance", Label: "Frustration Tolerance", Severity: 4},
			{Value: "shame_and_guilt_spirals", Label: "Shame and Guilt Spirals", Severity: 6},
			{Value: "mood_volatility", Label: "Mood Volatility", Severity: 5},
			{Value: "grudge_holding_and_unforgiveness", Label: "Grudge Holding and Unforgiveness", Severity: 5},
			{Value: "impulsivity", Label: "Impulsivity", Severity: 6},
		},
	},
	{
		Value:         CategoryCognitiveClarity,
		Label:         "Cognitive Clarity",
		Subcategories: []SubCategory{
			{Value: "confirmation_bias", Label: "Confirmation Bias", Severity: 5},
			{Value: "black_and_white_thinking", Label: "Black and White Thinking", Severity: 4},
			{Value: "catastrophizing", Label: "Catastrophizing", Severity: 5},
			{Value: "overthinking_and_rumination", Label: "Overthinking and Rumination", Severity: 4},
			{Value: "dunning_kruger_overconfidence", Label: "Dunning-Kruger Overconfidence", Severity: 5},
			{Value: "sunk_cost_fallacy", Label: "Sunk Cost Fallacy", Severity: 4},
			{Value: "attribution_errors", Label: "Attribution Errors", Severity: 5},
			{Value: "negativity_bias", Label: "Negativity Bias", Severity: 4},
			{Value: "anchoring_bias", Label: "Anchoring Bias", Severity: 3},
			{Value: "self_serving_bias", Label: "Self-Serving Bias", Severity: 5},
			{Value: "hindsight_bias", Label: "Hindsight Bias", Severity: 3},
			{Value: "bandwagon_effect", Label: "Bandwagon Effect", Severity: 4},
			{Value: "projection", Label: "Projection", Severity: 5},
			{Value: "indecisiveness_and_decision_paralysis", Label: "Indecisiveness and Decision Paralysis", Severity: 4},
		},
	},
	{
		Value:         CategorySocialRelational,
		Label:         "Social & Relational",
		Subcategories: []SubCategory{
			{Value: "empathy_deficit", Label: "Empathy Deficit", Severity: 6},
			{Value: "poor_communication", Label: "Poor Communication", Severity: 4},
			{Value: "active_listening_failure", Label: "Active Listening Failure", Severity: 3},
			{Value: "conflict_avoidance", Label: "Conflict Avoidance", Severity: 4},
			{Value: "destructive_conflict", Label: "Destructive Conflict", Severity: 6},
			{Value: "boundary_violation", Label: "Boundary Violation", Severity: 7},
			{Value: "inability_to_set_boundaries", Label: "Inability to Set Boundaries", Severity: 4},
			{Value: "people_pleasing", Label: "People Pleasing", Severity: 4},
			{Value: "social_manipulation", Label: "Social Manipulation", Severity: 8},
			{Value: "passive_aggression", Label: "Passive Aggression", Severity: 5},
			{Value: "isolation_and_withdrawal", Label: "Isolation and Withdrawal", Severity: 5},
			{Value: "codependency", Label: "Codependency", Severity: 5},
			{Value: "gossip_and_backbiting", Label: "Gossip and Backbiting", Severity: 5},
			{Value: "bullying_and_intimidation", Label: "Bullying and Intimidation", Severity: 7},
			{Value: "trust_issues_and_suspicion", Label: "Trust Issues and Suspicion", Severity: 5},
		},
	},
	{
		Value:         CategoryEthicalMoral,
		Label:         "Ethical & Moral",
		Subcategories: []SubCategory{
			{Value: "misogyny_gender_disrespect", Label: "Misogyny / Gender Disrespect", Severity: 8},
			{Value: "racism_ethnic_prejudice", Label: "Racism / Ethnic Prejudice", Severity: 9},
			{Value: "homophobia_lgbtq_prejudice", Label: "Homophobia / LGBTQ+ Prejudice", Severity: 8},
			{Value: "religious_cultural_intolerance", Label: "Religious / Cultural Intolerance", Severity: 7},
			{Value: "class_disability_prejudice", Label: "Class / Disability Prejudice", Severity: 7},
			{Value: "dishonesty_and_deception", Label: "Dishonesty and Deception", Severity: 7},
			{Value: "lack_of_accountability", Label: "Lack of Accountability", Severity: 6},
			{Value: "entitlement_and_selfishness", Label: "Entitlement and Selfishness", Severity: 6},
			{Value: "cruelty_and_callousness", Label: "Cruelty and Callousness", Severity: 9},
			{Value: "hypocrisy", Label: "Hypocrisy", Severity: 5},
		},
	},
	{
		Value:         CategoryPhysicalLifestyle,
		Label:         "Physical & Lifestyle",
		Subcategories: []SubCategory{
			{Value: "physical_inactivity", Label: "Physical Inactivity", Severity: 4},
			{Value: "poor_nutrition", Label: "Poor Nutrition", Severity: 4},
			{Value: "sleep_neglect", Label: "Sleep Neglect", Severity: 4},
			{Value: "substance_misuse", Label: "Substance Misuse", Severity: 8},
			{Value: "screen_and_digital_addiction", Label: "Screen and Digital Addiction", Severity: 5},
			{Value: "procrastination", Label: "Procrastination", Severity: 4},
			{Value: "poor_time_management", Label: "Poor Time Management", Severity: 3},
			{Value: "financial_irresponsibility", Label: "Financial Irresponsibility", Severity: 5},
			{Value: "hygiene_and_self_care_neglect", Label: "Hygiene and Self-Care Neglect", Severity: 4},
			{Value: "workaholism", Label: "Workaholism", Severity: 5},
			{Value: "attention_and_focus_deficit", Label: "Attention and Focus Deficit", Severity: 4},
			{Value: "sexual_compulsivity", Label: "Sexual Compulsivity", Severity: 6},
		},
	},
	{
		Value:         CategoryIdentityGrowth,
		Label:         "Identity & Growth",
		Subcategories: []SubCategory{
			{Value: "low_self_confidence", Label: "Low Self-Confidence", Severity: 3},
			{Value: "low_self_worth", Label: "Low Self-Worth", Severity: 5},
			{Value: "impostor_syndrome", Label: "Impostor Syndrome", Severity: 3},
			{Value: "toxic_perfectionism", Label: "Toxic Perfectionism", Severity: 4},
			{Value: "fear_of_failure", Label: "Fear of Failure", Severity: 4},
			{Value: "fear_of_rejection", Label: "Fear of Rejection", Severity: 4},
			{Value: "lack_of_purpose", Label: "Lack of Purpose", Severity: 5},
			{Value: "victim_mentality", Label: "Victim Mentality", Severity: 6},
			{Value: "fixed_mindset", Label: "Fixed Mindset", Severity: 5},
			{Value: "learned_helplessness", Label: "Learned Helplessness", Severity: 5},
			{Value: "complacency", Label: "Complacency", Severity: 3},
			{Value: "identity_fragility", Label: "Identity Fragility", Severity: 4},
			{Value: "inability_to_ask_for_help", Label: "Inability to Ask for Help", Severity: 4},
			{Value: "materialism_and_status_obsession", Label: "Materialism and Status Obsession", Severity: 5},
			{Value: "spiritual_existential_disconnection", Label: "Spiritual / Existential Disconnection", Severity: 4},
		},
	},
}

// Categories returns the full taxonomy in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// FindCategory looks up a main category by value.
func FindCategory(main string) (Category, bool) {
	for _, c := range categories {
		if c.Value == main {
			return c, true
		}
	}
	return Category{}, false
}

// FindSubCategory looks up a subcategory within a main category.
func FindSubCategory(main, sub string) (SubCategory, bool) {
	c, ok := FindCategory(main)
	if !ok {
		return SubCategory{}, false
	}
	for _, s := range c.Subcategories {
		if s.Value == sub {
			return s, true
		}
	}
	return SubCategory{}, false
}

// CategoryLabel returns the display label for a main category, or the raw value if unknown.
func CategoryLabel(main string) string {
	if c, ok := FindCategory(main); ok {
		return c.Label
	}
	return main
}

// ValidateCategory checks an optional main/sub pair against the taxonomy.
// Both empty is valid. A subcategory requires its main category.
func ValidateCategory(main, sub string) error {
	if main == "" && sub == "" {
		return nil
	}
	if main == "" {
		return fmt.Errorf("%w: sub_category %q requires main_category", apperrors.ErrInvalidInput, sub)
	}
	if _, ok := FindCategory(main); !ok {
		return fmt.Errorf("%w: unknown main_category %q", apperrors.ErrInvalidInput, main)
	}
	if sub == "" {
		return nil
	}
	if _, ok := FindSubCategory(main, sub); !ok {
		return fmt.Errorf("%w: sub_category %q is not part of %q", apperrors.ErrInvalidInput, sub, main)
	}
	return nil
}
