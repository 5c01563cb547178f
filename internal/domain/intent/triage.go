package intent

import (
	"fmt"
	"strings"
)

// Severity levels produced by the scorer.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// RiskAssessment is the scorer's result. It is only persisted as the
// risk_score field of an Observation event.
type RiskAssessment struct {
	RiskScore         int    `json:"risk_score"`
	Severity          string `json:"severity"`
	Explanation       string `json:"explanation"`
	SymptomCount      int    `json:"symptom_count,omitempty"`
	RecommendedAction string `json:"recommended_action,omitempty"`
}

// Scorer turns reported symptoms into a risk assessment.
type Scorer interface {
	Triage(symptoms []string) RiskAssessment
}

// KeywordScorer matches symptoms against fixed keyword lists. It is a
// heuristic, not clinical logic; thresholds must stay as they are.
type KeywordScorer struct{}

var highRiskKeywords = []string{
	"chest pain", "difficulty breathing", "severe pain",
	"unconscious", "severe bleeding", "heart attack",
	"stroke", "seizure", "severe allergic reaction",
}

var mediumRiskKeywords = []string{
	"fever", "persistent cough", "headache",
	"nausea", "dizziness", "fatigue", "pain",
}

var recommendedActions = map[string]string{
	SeverityHigh:   "Seek immediate emergency care",
	SeverityMedium: "Schedule urgent appointment or visit urgent care",
	SeverityLow:    "Monitor symptoms and schedule routine appointment if needed",
}

// Triage scores symptoms. High-risk matches win over medium, medium over low.
func (KeywordScorer) Triage(symptoms []string) RiskAssessment {
	if len(symptoms) == 0 {
		return RiskAssessment{
			RiskScore:   0,
			Severity:    SeverityLow,
			Explanation: "No symptoms reported",
		}
	}

	lower := make([]string, len(symptoms))
	for i, s := range symptoms {
		lower[i] = strings.ToLower(s)
	}

	var score int
	var severity string
	if n := countMatchedKeywords(highRiskKeywords, lower); n > 0 {
		score = min(90+5*n, 100)
		severity = SeverityHigh
	} else if countMatchedKeywords(mediumRiskKeywords, lower) > 0 {
		score = min(40+10*len(symptoms), 80)
		severity = SeverityMedium
	} else {
		score = min(15*len(symptoms), 40)
		severity = SeverityLow
	}

	return RiskAssessment{
		RiskScore:         score,
		Severity:          severity,
		Explanation:       fmt.Sprintf("Analyzed %d symptom(s). Risk assessment: %s", len(symptoms), severity),
		SymptomCount:      len(symptoms),
		RecommendedAction: recommendedAction(severity),
	}
}

// countMatchedKeywords counts keywords contained in at least one symptom.
func countMatchedKeywords(keywords, symptoms []string) int {
	n := 0
	for _, kw := range keywords {
		for _, s := range symptoms {
			if strings.Contains(s, kw) {
				n++
				break
			}
		}
	}
	return n
}

func recommendedAction(severity string) string {
	if a, ok := recommendedActions[severity]; ok {
		return a
	}
	return "Monitor symptoms"
}

// symptomRecommendation is the dispatcher's own risk-score table for symptom
// reports. It does not line up with recommendedActions.
func symptomRecommendation(riskScore int) string {
	switch {
	case riskScore >= 80:
		return "Seek immediate medical attention or call emergency services"
	case riskScore >= 50:
		return "Schedule an appointment with your doctor within 24 hours"
	case riskScore >= 30:
		return "Monitor symptoms and consider scheduling a routine appointment"
	default:
		return "Continue monitoring. Contact doctor if symptoms worsen"
	}
}
